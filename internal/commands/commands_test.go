package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/fatih/color"

	"github.com/handiism/album-ratings/internal/audio"
	"github.com/handiism/album-ratings/internal/config"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type env struct {
	t   *testing.T
	dir string
	cfg string
}

// newEnv writes a settings file pointing at a fresh SQLite database.
func newEnv(t *testing.T) *env {
	t.Helper()
	for _, k := range []string{
		config.EnvBackend, config.EnvDSN, config.EnvDataDir,
		config.EnvLocale, config.EnvSort, config.EnvHTTPTimeout,
	} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	s := config.DefaultSettings()
	s.Backend = config.BackendSQLite
	s.DSN = filepath.Join(dir, "albums.db")
	s.CoversDir = filepath.Join(dir, "covers")
	s.ShowCovers = false
	s.WatchStore = false

	cfg := filepath.Join(dir, "config.json")
	if err := s.Save(cfg); err != nil {
		t.Fatal(err)
	}
	return &env{t: t, dir: dir, cfg: cfg}
}

func (e *env) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.cfg}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("albums %s: %v\n%s", strings.Join(args, " "), err, errOut)
	}
	return out
}

func (e *env) albums() []model.Album {
	e.t.Helper()
	var albums []model.Album
	if err := json.Unmarshal([]byte(e.mustRun("export", "--sort", "title-asc")), &albums); err != nil {
		e.t.Fatalf("decode export: %v", err)
	}
	return albums
}

func TestAddAndList(t *testing.T) {
	e := newEnv(t)

	e.mustRun("add", "--title", "Blue", "--artist", "Joni Mitchell", "--rating", "4")
	e.mustRun("add", "-t", "Kid A", "-a", "Radiohead", "-r", "5", "--review", "Cold.")

	out := e.mustRun("list")
	if !strings.Contains(out, "2 albums") {
		t.Errorf("list missing count:\n%s", out)
	}
	kid, blue := strings.Index(out, "Kid A"), strings.Index(out, "Blue")
	if kid < 0 || blue < 0 || kid > blue {
		t.Errorf("default sort should list Kid A first:\n%s", out)
	}

	out = e.mustRun("list", "--sort", "rating-asc")
	if strings.Index(out, "Blue") > strings.Index(out, "Kid A") {
		t.Errorf("rating-asc should list Blue first:\n%s", out)
	}

	if out := e.mustRun("list", "--wide"); !strings.Contains(out, "Cold.") {
		t.Errorf("wide list missing review:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "--title", "Blue", "--artist", "Joni Mitchell", "--rating", "5",
		"--review", "**Perfect.** Every song lands.")

	out := e.mustRun("show", "1")
	for _, want := range []string{"Blue", "Joni Mitchell", model.Stars(5), "Perfect.", "Every song lands."} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := e.run("show", "9"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("show missing = %v, want ErrNotFound", err)
	}
}

func TestList_Empty(t *testing.T) {
	e := newEnv(t)
	if out := e.mustRun("list"); !strings.Contains(out, "No albums yet") {
		t.Errorf("list = %q", out)
	}
}

func TestList_UnknownSort(t *testing.T) {
	e := newEnv(t)
	if _, _, err := e.run("list", "--sort", "year"); err == nil {
		t.Error("unknown sort accepted")
	}
}

func TestAdd_Invalid(t *testing.T) {
	e := newEnv(t)

	_, errOut, err := e.run("add", "--artist", "Nobody")
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("add = %v, want title ValidationError", err)
	}
	if !Reported(err) {
		t.Error("validation failure should already be reported as a notice")
	}
	if !strings.Contains(errOut, "title is required") {
		t.Errorf("stderr = %q", errOut)
	}
	if got := e.albums(); len(got) != 0 {
		t.Errorf("albums = %+v, want none", got)
	}
}

func TestEdit(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "--title", "Blue", "--artist", "Joni Mitchell", "--rating", "4")

	e.mustRun("edit", "1", "--rating", "2", "--review", "Not for me.")

	got := e.albums()
	if len(got) != 1 || got[0].Rating != 2 || got[0].Review != "Not for me." || got[0].Title != "Blue" {
		t.Errorf("albums = %+v", got)
	}

	if _, _, err := e.run("edit", "1"); err == nil {
		t.Error("edit without flags should fail")
	}
	if _, _, err := e.run("edit", "42", "--rating", "1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("edit missing = %v, want ErrNotFound", err)
	}
	if _, _, err := e.run("edit", "abc", "--rating", "1"); err == nil {
		t.Error("non-numeric id accepted")
	}
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "--title", "Blue", "--artist", "Joni Mitchell")
	e.mustRun("add", "--title", "Hejira", "--artist", "Joni Mitchell")

	orig := confirm
	defer func() { confirm = orig }()

	var asked string
	confirm = func(label string) bool {
		asked = label
		return false
	}
	if _, errOut, err := e.run("delete", "1"); err != nil || !strings.Contains(errOut, "Kept.") {
		t.Errorf("declined delete = %v, stderr %q", err, errOut)
	}
	if asked != "Delete Joni Mitchell - Blue?" {
		t.Errorf("prompt = %q", asked)
	}
	if got := e.albums(); len(got) != 2 {
		t.Fatalf("declined delete removed an album: %+v", got)
	}

	confirm = func(string) bool {
		t.Error("--yes should not prompt")
		return false
	}
	e.mustRun("delete", "1", "--yes")

	got := e.albums()
	if len(got) != 1 || got[0].Title != "Hejira" {
		t.Errorf("albums = %+v", got)
	}
	if _, _, err := e.run("delete", "1", "--yes"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("delete missing = %v, want ErrNotFound", err)
	}
}

func TestExport_File(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "--title", "Blue", "--artist", "Joni Mitchell", "--rating", "4")
	e.mustRun("add", "--title", "Kid A", "--artist", "Radiohead", "--rating", "5")

	path := filepath.Join(e.dir, "out", "albums.json")
	e.mustRun("export", path, "--sort", "rating-asc")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []model.Album
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Title != "Blue" || got[1].Title != "Kid A" {
		t.Errorf("export = %+v", got)
	}
}

const releasePage = `<html><script data-tralbum="{
	&quot;current&quot;:{&quot;title&quot;:&quot;%s&quot;},
	&quot;artist&quot;:&quot;Boards of Canada&quot;,
	&quot;art_id&quot;:42,
	&quot;trackinfo&quot;:[{&quot;track_num&quot;:1,&quot;title&quot;:&quot;Ready Lets Go&quot;}]
}"></script></html>`

func bandcampServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/music", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/album/geogaddi">1</a><a href="/album/campfire">2</a><a href="/album/gone">3</a>`)
	})
	mux.HandleFunc("/album/geogaddi", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, releasePage, "Geogaddi")
	})
	mux.HandleFunc("/album/campfire", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, releasePage, "In a Beautiful Place Out in the Country")
	})
	mux.HandleFunc("/album/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAdd_FromBandcamp(t *testing.T) {
	e := newEnv(t)
	srv := bandcampServer(t)

	e.mustRun("add", "--from-bandcamp", srv.URL+"/album/geogaddi", "--rating", "5")

	got := e.albums()
	if len(got) != 1 {
		t.Fatalf("albums = %+v", got)
	}
	a := got[0]
	if a.Title != "Geogaddi" || a.Artist != "Boards of Canada" || a.Rating != 5 {
		t.Errorf("album = %+v", a)
	}
	if !strings.Contains(a.Cover, "a0000000042") {
		t.Errorf("Cover = %q, want the artwork URL", a.Cover)
	}
}

func TestImport(t *testing.T) {
	e := newEnv(t)
	srv := bandcampServer(t)

	out, errOut, err := e.run("import", srv.URL, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "Boards of Canada - Geogaddi") {
		t.Errorf("dry run output = %q", out)
	}
	if !strings.Contains(errOut, "Skipping") {
		t.Errorf("missing page was not reported: %q", errOut)
	}
	if got := e.albums(); len(got) != 0 {
		t.Fatalf("dry run added albums: %+v", got)
	}

	e.mustRun("import", srv.URL, "--rating", "3")
	if got := e.albums(); len(got) != 2 || got[0].Rating != 3 {
		t.Fatalf("albums = %+v", got)
	}

	e.mustRun("import", srv.URL)
	if got := e.albums(); len(got) != 2 {
		t.Errorf("second import duplicated albums: %+v", got)
	}
}

func TestTag(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "--title", "Blue", "--artist", "Joni Mitchell", "--rating", "5", "--review", "Perfect.")

	path := filepath.Join(e.dir, "track.mp3")
	if err := os.WriteFile(path, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	tag.SetTitle("All I Want")
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	tag.Close()

	e.mustRun("tag", "1", path)

	tags, err := audio.ReadTags(path)
	if err != nil {
		t.Fatal(err)
	}
	if tags.Album != "Blue" || tags.AlbumArtist != "Joni Mitchell" || tags.Title != "All I Want" {
		t.Errorf("tags = %+v", tags)
	}
	if !strings.Contains(tags.Comment, "Perfect.") {
		t.Errorf("Comment = %q", tags.Comment)
	}

	if _, _, err := e.run("tag", "1", filepath.Join(e.dir, "missing.mp3")); err == nil {
		t.Error("tagging a missing file should fail")
	}
}

func TestConfig(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "fresh", "config.json")

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "config", "--init"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config --init: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("written settings do not load: %v", err)
	}

	cmd = New()
	cmd.SetArgs([]string{"--config", path, "config", "--init"})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("--init overwrote an existing file without --force")
	}

	if out := e.mustRun("config"); !strings.Contains(out, `"backend": "sqlite"`) {
		t.Errorf("config output = %q", out)
	}
}
