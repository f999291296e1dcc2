package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/toolboard/internal/adapters/repository"
	service "github.com/okian/toolboard/internal/app"
	"github.com/okian/toolboard/internal/config"
	"github.com/okian/toolboard/internal/domain/model"
	"github.com/okian/toolboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func videoTools() []model.ToolRecord {
	return []model.ToolRecord{
		{ID: "tool-b", Category: "Video", Pricing: "$60/month", Badges: []string{"Best Quality"}, Pros: []string{"Cinematic output"}, Cons: []string{"Steep learning curve", "Pricey add-ons"}},
		{ID: "tool-a", Category: "Video", Pricing: "$15/month", Pros: []string{"Fast renders", "Templates", "Stock library"}},
		{ID: "jasper", Category: "Writing", Pricing: "$49/month"},
	}
}

func TestBuildRanker(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := config.New()

		Convey("Then the ranker should match the built-in tables", func() {
			defaults := scoring.NewRanker(
				scoring.WithDimensionScorer(scoring.NewDimensionScorer(scoring.WithBoosts(scoring.NewBoostTable(scoring.DefaultBoosts())))),
				scoring.WithCallouts(scoring.DefaultCallouts()),
			)
			So(buildRanker(cfg).Rank(videoTools()), ShouldResemble, defaults.Rank(videoTools()))
		})
	})

	Convey("Given config overrides for weights, boosts and callouts", t, func() {
		cfg := config.New()
		cfg.CategoryWeights = map[string]map[string]float64{
			"Video": {"value": 1, "quality": 0, "adoption": 0, "ux": 0},
		}
		cfg.Boosts = map[string]map[string]int{"jasper": {"ux": 200}}
		cfg.EditorCallouts = map[string]string{"Video": "Weekly creators' pick."}

		out := buildRanker(cfg).Rank(videoTools())

		Convey("Then the category weights should drive Video totals", func() {
			for _, tool := range out[0].Tools {
				So(tool.TotalScore, ShouldEqual, tool.Dimensions.Value)
			}
		})

		Convey("Then the boost should be applied and capped", func() {
			So(out[1].Tools[0].Dimensions.UX, ShouldEqual, 100)
		})

		Convey("Then configured callouts should replace defaults per category", func() {
			So(out[0].EditorCallout, ShouldEqual, "Weekly creators' pick.")
			So(out[1].EditorCallout, ShouldEqual, scoring.DefaultCallouts()["Writing"])
		})
	})

	Convey("Given adoption jitter with a fixed seed", t, func() {
		cfg := config.New()
		cfg.AdoptionJitter = 10
		cfg.JitterSeed = 7

		Convey("Then two rankers built from it should agree", func() {
			So(buildRanker(cfg).Rank(videoTools()), ShouldResemble, buildRanker(cfg).Rank(videoTools()))
		})
	})
}

func TestOpenRepository(t *testing.T) {
	Convey("Given each snapshot backend", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When the backend is file", func() {
			cfg := config.New()
			cfg.SnapshotDir = dir

			repo, err := openRepository(ctx, cfg)

			Convey("Then a file store rooted at the directory should be returned", func() {
				So(err, ShouldBeNil)
				fs, ok := repo.(*repository.FileStore)
				So(ok, ShouldBeTrue)
				So(fs.Dir(), ShouldEqual, dir)
			})
		})

		Convey("When the backend is sqlite", func() {
			cfg := config.New()
			cfg.SnapshotBackend = config.BackendSQLite
			cfg.SnapshotDB = filepath.Join(dir, "nested", "board.db")

			repo, err := openRepository(ctx, cfg)

			Convey("Then the database should be created", func() {
				So(err, ShouldBeNil)
				store, ok := repo.(*repository.SQLiteStore)
				So(ok, ShouldBeTrue)
				So(store.Close(), ShouldBeNil)
			})
		})

		Convey("When the backend is unknown", func() {
			cfg := config.New()
			cfg.SnapshotBackend = "s3"

			_, err := openRepository(ctx, cfg)

			Convey("Then an error should be returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	catalogYAML := `tools:
  - id: synthesia
    name: Synthesia
    category: Video
    pricing: "$29/month"
    badges: [Enterprise Ready]
    enterprise: true
  - id: jasper
    name: Jasper
    category: Writing
    pricing: "Free trial, then $49/month"
`
	if err := os.MkdirAll(filepath.Join(dir, "catalog"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "catalog", "tools.yaml"), []byte(catalogYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfgYAML := "log_level: error\n" +
		"catalog_path: " + filepath.Join(dir, "catalog", "*.yaml") + "\n" +
		"snapshot_dir: " + filepath.Join(dir, "history") + "\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfgYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	Convey("Given a config file and a catalog on disk", t, func() {
		cfgPath := writeFixture(t)

		Convey("When running the snapshot command twice", func() {
			first, err1 := execute("--config", cfgPath, "snapshot", "--json")
			second, err2 := execute("--config", cfgPath, "snapshot", "--json")

			Convey("Then only the first run should write", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)

				var a, b service.BatchResult
				So(json.Unmarshal([]byte(first), &a), ShouldBeNil)
				So(json.Unmarshal([]byte(second), &b), ShouldBeNil)
				So(a.Written, ShouldBeTrue)
				So(a.PriorWeek, ShouldEqual, "")
				So(a.Tools, ShouldEqual, 2)
				So(b.Written, ShouldBeFalse)
				So(b.PriorWeek, ShouldEqual, a.Week)
			})
		})

		Convey("When printing one category", func() {
			out, err := execute("--config", cfgPath, "scores", "--category", "Video")

			Convey("Then the table should list the tool", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Video")
				So(out, ShouldContainSubstring, "synthesia")
				So(out, ShouldNotContainSubstring, "jasper")
			})
		})

		Convey("When asking for an unknown category", func() {
			_, err := execute("--config", cfgPath, "scores", "--category", "Audio")

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), "Audio"), ShouldBeTrue)
			})
		})

		Convey("When asking for more movers than allowed", func() {
			_, err := execute("--config", cfgPath, "movers", "--limit", "500")

			Convey("Then the command should fail before scoring", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a missing config file", t, func() {
		_, err := execute("--config", filepath.Join(t.TempDir(), "absent.yaml"), "scores")

		Convey("Then the root command should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
