package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/toolboard/internal/adapters/repository"
	"github.com/okian/toolboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v int) *int { return &v }

func snapshot(id string) model.Snapshot {
	return model.Snapshot{
		Week:      id,
		Timestamp: time.Date(2024, time.September, 16, 9, 30, 0, 0, time.UTC),
		Categories: []model.CategoryScores{{
			Category:      "Video",
			EditorCallout: "Editor's pick",
			Tools: []model.ToolScore{
				{
					ID: "tool-a", Name: "Tool A", Category: "Video",
					Dimensions:  model.ScoreDimensions{Value: 74, Quality: 75, Adoption: 40, UX: 75},
					TotalScore:  70,
					Rank:        1,
					RankDelta:   ptr(0),
					ScoreDelta:  ptr(0),
					Explanation: "Top-tier output quality combined with excellent usability.",
				},
				{
					ID: "tool-b", Name: "Tool B", Category: "Video",
					Dimensions: model.ScoreDimensions{Value: 52, Quality: 79, Adoption: 40, UX: 55},
					TotalScore: 62,
					Rank:       2,
				},
			},
		}},
	}
}

// contract runs the behaviour every Repository must share.
func contract(newStore func() repository.Repository) {
	ctx := context.Background()

	Convey("When nothing has been stored", func() {
		store := newStore()

		Convey("Then LoadLatest should report no snapshot", func() {
			_, err := store.LoadLatest(ctx)
			So(err, ShouldEqual, repository.ErrNoSnapshot)
		})

		Convey("Then Exists and List should be empty", func() {
			ok, err := store.Exists(ctx, "2024-38")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			weeks, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(weeks, ShouldBeEmpty)
		})
	})

	Convey("When saving and reloading a snapshot", func() {
		store := newStore()
		So(store.Save(ctx, snapshot("2024-38")), ShouldBeNil)

		got, err := store.LoadLatest(ctx)
		So(err, ShouldBeNil)

		Convey("Then the round trip should be exact", func() {
			So(got.Week, ShouldEqual, "2024-38")
			So(got.Timestamp.Equal(snapshot("2024-38").Timestamp), ShouldBeTrue)
			So(got.Categories, ShouldResemble, snapshot("2024-38").Categories)
		})

		Convey("Then absent deltas should stay absent and zero deltas stay zero", func() {
			So(*got.Categories[0].Tools[0].ScoreDelta, ShouldEqual, 0)
			So(got.Categories[0].Tools[1].ScoreDelta, ShouldBeNil)
			So(got.Categories[0].Tools[1].RankDelta, ShouldBeNil)
		})

		Convey("Then Exists should see the week", func() {
			ok, err := store.Exists(ctx, "2024-38")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})
	})

	Convey("When saving the same week twice", func() {
		store := newStore()
		first := snapshot("2024-38")
		second := snapshot("2024-38")
		second.Categories = nil

		So(store.Save(ctx, first), ShouldBeNil)
		err := store.Save(ctx, second)

		Convey("Then the second write should be refused", func() {
			So(errors.Is(err, repository.ErrSnapshotExists), ShouldBeTrue)
		})

		Convey("Then the first snapshot should be kept", func() {
			got, err := store.Load(ctx, "2024-38")
			So(err, ShouldBeNil)
			So(len(got.Categories), ShouldEqual, 1)
		})
	})

	Convey("When several weeks are stored out of order", func() {
		store := newStore()
		for _, id := range []string{"2024-38", "2023-52", "2025-01", "2024-09"} {
			So(store.Save(ctx, snapshot(id)), ShouldBeNil)
		}

		Convey("Then List should be ascending", func() {
			weeks, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(weeks, ShouldResemble, []string{"2023-52", "2024-09", "2024-38", "2025-01"})
		})

		Convey("Then LoadLatest should return the greatest week", func() {
			got, err := store.LoadLatest(ctx)
			So(err, ShouldBeNil)
			So(got.Week, ShouldEqual, "2025-01")
		})

		Convey("Then Load should find an older week", func() {
			got, err := store.Load(ctx, "2023-52")
			So(err, ShouldBeNil)
			So(got.Week, ShouldEqual, "2023-52")

			_, err = store.Load(ctx, "2022-01")
			So(err, ShouldEqual, repository.ErrNoSnapshot)
		})
	})

	Convey("When the week identifier is malformed", func() {
		store := newStore()

		Convey("Then every operation should reject it", func() {
			So(errors.Is(store.Save(ctx, snapshot("../x")), repository.ErrInvalidWeek), ShouldBeTrue)
			_, err := store.Exists(ctx, "38")
			So(errors.Is(err, repository.ErrInvalidWeek), ShouldBeTrue)
			_, err = store.Load(ctx, "2024-38.json")
			So(errors.Is(err, repository.ErrInvalidWeek), ShouldBeTrue)
		})
	})
}

func TestFileStore(t *testing.T) {
	Convey("Given a file-backed snapshot repository", t, func() {
		contract(func() repository.Repository {
			return repository.NewFileStore(filepath.Join(t.TempDir(), "history"))
		})
	})

	Convey("Given a snapshot directory with unrelated files", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, ".2024-40-123.tmp"), []byte("{"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "latest.json"), []byte("{}"), 0o644), ShouldBeNil)
		So(os.Mkdir(filepath.Join(dir, "2099-01.json"), 0o755), ShouldBeNil)

		store := repository.NewFileStore(dir)
		So(store.Save(context.Background(), snapshot("2024-38")), ShouldBeNil)

		Convey("Then only week files should be listed", func() {
			weeks, err := store.List(context.Background())
			So(err, ShouldBeNil)
			So(weeks, ShouldResemble, []string{"2024-38"})
		})

		Convey("Then the snapshot should be a named JSON file with no temp leftovers", func() {
			_, err := os.Stat(filepath.Join(dir, "2024-38.json"))
			So(err, ShouldBeNil)

			matches, err := filepath.Glob(filepath.Join(dir, ".2024-38-*.tmp"))
			So(err, ShouldBeNil)
			So(matches, ShouldBeEmpty)
		})
	})

	Convey("Given a corrupt latest snapshot file", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "2024-38.json"), []byte(`{"week":`), 0o644), ShouldBeNil)

		_, err := repository.NewFileStore(dir).LoadLatest(context.Background())

		Convey("Then loading should fail with a decode error", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldNotEqual, repository.ErrNoSnapshot)
		})
	})

	Convey("Given concurrent writers for the same week", t, func() {
		store := repository.NewFileStore(t.TempDir())

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if store.Save(context.Background(), snapshot("2024-38")) == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one write should win", func() {
			So(succeeded, ShouldEqual, 1)
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a SQLite-backed snapshot repository", t, func() {
		contract(func() repository.Repository {
			store, err := repository.OpenSQLiteStore(context.Background(),
				filepath.Join(t.TempDir(), "db", "leaderboard.db"),
				repository.WithMkdirAll(),
			)
			So(err, ShouldBeNil)
			return store
		})
	})

	Convey("Given an in-memory SQLite store", t, func() {
		store, err := repository.OpenSQLiteStore(context.Background(), ":memory:")
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		So(store.Save(context.Background(), snapshot("2024-38")), ShouldBeNil)

		Convey("Then it should load what was saved", func() {
			got, err := store.LoadLatest(context.Background())
			So(err, ShouldBeNil)
			So(got.Week, ShouldEqual, "2024-38")
		})
	})
}
