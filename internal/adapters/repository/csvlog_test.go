package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/apexstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "Kills,Damage,Squad Position,Legend,Time,Squad Makeup,Notes\n"

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(b)
}

func TestCSVLogFormat(t *testing.T) {
	Convey("Given a CSV log that does not exist yet", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "log.csv")
		log := NewCSVLog(path)

		Convey("When appending the first observation", func() {
			So(log.Append(ctx, sampleObservations()[3]), ShouldBeNil)

			Convey("Then the file should hold the header and one row", func() {
				So(readFile(t, path), ShouldEqual,
					header+"9,1032,1,pathfinder,2019-04-21T02:37:02+02:00,trio,champion\n")
			})
		})

		Convey("When appending three observations", func() {
			for _, o := range sampleObservations()[:3] {
				So(log.Append(ctx, o), ShouldBeNil)
			}
			content := readFile(t, path)

			Convey("Then the header should be written exactly once", func() {
				So(strings.Count(content, "Kills,Damage"), ShouldEqual, 1)
				So(strings.HasPrefix(content, header), ShouldBeTrue)
			})

			Convey("Then notes should be quoted where needed", func() {
				So(content, ShouldContainSubstring, `"third party, ""again"""`)
				So(content, ShouldContainSubstring, "\"line one\nline two\"")
			})

			Convey("Then the header should never be yielded as a record", func() {
				got, err := collect(ctx, log)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 3)
			})
		})

		Convey("When the file exists but is empty", func() {
			So(os.WriteFile(path, nil, 0o600), ShouldBeNil)
			So(log.Append(ctx, sampleObservations()[0]), ShouldBeNil)

			Convey("Then the header should be written", func() {
				So(strings.HasPrefix(readFile(t, path), header), ShouldBeTrue)
			})
		})
	})
}

func TestCSVLogLegacyRows(t *testing.T) {
	Convey("Given a log written by an older version", t, func() {
		ctx := context.Background()

		Convey("When characters are capitalised", func() {
			path := writeFile(t, header+
				"5,891,3,Bangalore,2019-04-22T22:05:02.123456789+00:00,solo,\n"+
				"3,520,6,Wraith,2019-04-22T21:42:02+00:00,unknown,hot drop\n")
			got, err := collect(ctx, NewCSVLog(path))

			Convey("Then they should still decode", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Character, ShouldEqual, model.Bangalore)
				So(got[0].RecordedAt.Nanosecond(), ShouldEqual, 123456789)
				So(got[1].Character, ShouldEqual, model.Wraith)
				So(got[1].Squad, ShouldEqual, model.Unknown)
				So(got[1].Notes, ShouldEqual, "hot drop")
			})
		})

		Convey("When the squad column is missing and columns are reordered", func() {
			path := writeFile(t, "Legend,Kills,Damage,Squad Position,Time,Notes\n"+
				"Mirage,2,300,12,2019-04-20T10:00:00Z,decoys\n")
			got, err := collect(ctx, NewCSVLog(path))

			Convey("Then rows should decode with an Unknown squad", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Character, ShouldEqual, model.Mirage)
				So(got[0].Kills, ShouldEqual, 2)
				So(got[0].Damage, ShouldEqual, 300)
				So(got[0].SquadPosition, ShouldEqual, 12)
				So(got[0].Squad, ShouldEqual, model.Unknown)
			})
		})

		Convey("When a required column is missing", func() {
			path := writeFile(t, "Kills,Damage\n1,2\n")
			_, err := collect(ctx, NewCSVLog(path))

			Convey("Then reading should report corruption", func() {
				So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
				So(errors.Is(err, ErrIO), ShouldBeTrue)
			})
		})
	})
}

func TestCSVLogDamage(t *testing.T) {
	Convey("Given a damaged log", t, func() {
		ctx := context.Background()

		Convey("When the last append was interrupted mid-row", func() {
			path := writeFile(t, header+
				"5,891,3,bangalore,2019-04-22T22:05:02Z,solo,\n"+
				"3,52")
			log := NewCSVLog(path)

			Convey("Then reads should ignore the fragment", func() {
				got, err := collect(ctx, log)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
			})

			Convey("Then the next append should replace the fragment", func() {
				So(log.Append(ctx, sampleObservations()[3]), ShouldBeNil)
				got, err := collect(ctx, log)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[1].Character, ShouldEqual, model.Pathfinder)
				So(readFile(t, path), ShouldNotContainSubstring, "3,52")
			})
		})

		Convey("When the interrupted row stopped inside multi-line notes", func() {
			path := writeFile(t, header+
				"5,891,3,bangalore,2019-04-22T22:05:02Z,solo,\n"+
				"3,520,6,wraith,2019-04-22T21:42:02Z,duo,\"line one\nline tw")
			log := NewCSVLog(path)

			Convey("Then reads should ignore the whole partial row", func() {
				got, err := collect(ctx, log)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Character, ShouldEqual, model.Bangalore)
			})

			Convey("Then the next append should cut the partial row and stay readable", func() {
				So(log.Append(ctx, sampleObservations()[3]), ShouldBeNil)
				So(readFile(t, path), ShouldNotContainSubstring, "line one")

				got, err := collect(ctx, NewCSVLog(path))
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[1].Character, ShouldEqual, model.Pathfinder)
			})
		})

		Convey("When the last complete row carries a newline in its notes", func() {
			path := filepath.Join(t.TempDir(), "log.csv")
			log := NewCSVLog(path)
			So(log.Append(ctx, sampleObservations()[2]), ShouldBeNil)
			So(os.WriteFile(path, append([]byte(readFile(t, path)), "4,4"...), 0o600), ShouldBeNil)

			Convey("Then a fresh log should keep that row and drop only the fragment", func() {
				fresh := NewCSVLog(path)
				So(fresh.Append(ctx, sampleObservations()[0]), ShouldBeNil)
				got, err := collect(ctx, fresh)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Notes, ShouldEqual, "line one\nline two")
				So(got[1].Character, ShouldEqual, model.Bangalore)
			})
		})

		Convey("When only part of the header was written", func() {
			path := writeFile(t, "Kills,Dam")
			log := NewCSVLog(path)
			So(log.Append(ctx, sampleObservations()[0]), ShouldBeNil)

			Convey("Then the header should be rewritten in full", func() {
				So(strings.HasPrefix(readFile(t, path), header), ShouldBeTrue)
				got, err := collect(ctx, log)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
			})
		})

		Convey("When a row holds an unknown character", func() {
			path := writeFile(t, header+
				"5,891,3,bangalore,2019-04-22T22:05:02Z,solo,\n"+
				"1,1,1,stve,2019-04-22T22:05:02Z,solo,\n")
			var got []model.Observation
			var readErr error
			for o, err := range NewCSVLog(path).Records(ctx) {
				if err != nil {
					readErr = err
					break
				}
				got = append(got, o)
			}

			Convey("Then valid rows before it should be yielded and then an error", func() {
				So(got, ShouldHaveLength, 1)
				So(errors.Is(readErr, ErrCorrupt), ShouldBeTrue)
				So(errors.Is(readErr, model.ErrUnknownCharacter), ShouldBeTrue)
				So(readErr.Error(), ShouldContainSubstring, "line 3")
			})
		})

		Convey("When a row has the wrong number of fields", func() {
			path := writeFile(t, header+"5,891,3\n")
			_, err := collect(ctx, NewCSVLog(path))
			So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
		})

		Convey("When a counter is negative", func() {
			path := writeFile(t, header+"-5,891,3,bangalore,2019-04-22T22:05:02Z,solo,\n")
			_, err := collect(ctx, NewCSVLog(path))
			So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
		})
	})
}

func TestCSVLogIOErrors(t *testing.T) {
	Convey("Given a log path inside a missing directory", t, func() {
		ctx := context.Background()
		log := NewCSVLog(filepath.Join(t.TempDir(), "missing", "log.csv"))

		Convey("When appending", func() {
			err := log.Append(ctx, sampleObservations()[0])

			Convey("Then an i/o store error should be returned", func() {
				var serr *StoreError
				So(errors.As(err, &serr), ShouldBeTrue)
				So(serr.Op, ShouldEqual, "csvlog.append")
				So(errors.Is(err, ErrIO), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When reading", func() {
			got, err := collect(ctx, log)

			Convey("Then the missing file should read as an empty log", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})
	})
}
