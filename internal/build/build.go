// Package build is the second pass of the stlog build step. It registers the
// call sites found by package scan, verifies them and writes the metadata
// outputs. Nothing is written unless every check passes.
package build

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/internal/scan"
	"github.com/tarmac-project/stlog/metadata"
	"github.com/tarmac-project/stlog/registrar"
)

// DefaultOutput is the name of the generated Go file.
const DefaultOutput = "zz_stlog.go"

// ErrNoOutput is returned by Generate when neither output is requested.
var ErrNoOutput = errors.New("no output requested, enable embedding or set a manifest path")

// Config describes one build step run.
type Config struct {
	// Dirs are the package directories to scan.
	Dirs []string

	// Root makes reported and recorded file paths relative. Defaults to the
	// working directory.
	Root string

	// Tags, GOOS and GOARCH select the files of the device build, as
	// scan.Config does.
	Tags   []string
	GOOS   string
	GOARCH string

	// Locations records file:line for every site and adds it to the
	// duplicate key.
	Locations bool

	// Embed writes the generated Go file carrying the metadata region.
	Embed bool

	// Output is the generated Go file. Defaults to DefaultOutput in the
	// first directory.
	Output string

	// Package is the package clause of the generated file. Defaults to the
	// name of the scanned package in the output directory.
	Package string

	// Manifest, when set, is where the YAML sidecar is written.
	Manifest string

	// Log receives progress. Defaults to the logrus standard logger.
	Log logrus.FieldLogger
}

// OrdinalMismatchError is returned when a site's declared value differs from
// the ordinal its table assigned.
type OrdinalMismatchError struct {
	Site    scan.Site
	Ordinal uint8
}

func (e *OrdinalMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: %s %s is declared as %d but is record %d, declare it as %s",
		e.Site.Pos, stlog.ErrOrdinalMismatch, e.Site.Level, e.Site.Name, e.Site.Value, e.Ordinal, e.Suggestion())
}

// Suggestion returns the value expression that gives the site its ordinal
// within its declaration block, such as "iota + 2".
func (e *OrdinalMismatchError) Suggestion() string {
	switch offset := int(e.Ordinal) - e.Site.Iota; {
	case offset > 0:
		return fmt.Sprintf("iota + %d", offset)
	case offset < 0:
		return fmt.Sprintf("iota - %d", -offset)
	default:
		return "iota"
	}
}

func (e *OrdinalMismatchError) Unwrap() error { return stlog.ErrOrdinalMismatch }

// BindingError reports a global logger binding problem. Err is
// stlog.ErrDuplicateGlobalBinding or stlog.ErrMissingGlobalBinding.
type BindingError struct {
	Err   error
	First scan.Call
	// Second is the other writer for a duplicate binding.
	Second *scan.Call
}

func (e *BindingError) Error() string {
	if e.Second != nil {
		return fmt.Sprintf("%s: %s: global.%s, already bound at %s", e.Second.Pos, e.Err, e.Second.Func, e.First.Pos)
	}
	return fmt.Sprintf("%s: %s: global.%s is used but no package calls global.Set", e.First.Pos, e.Err, e.First.Func)
}

func (e *BindingError) Unwrap() error { return e.Err }

// Result is a verified build.
type Result struct {
	Tables   metadata.Tables
	Packages []*scan.Package
}

// Sites returns the number of registered sites.
func (r *Result) Sites() int {
	n := 0
	for _, tbl := range r.Tables.Levels {
		n += len(tbl.Records)
	}
	return n
}

// Run scans and verifies cfg.Dirs without writing anything.
func Run(cfg Config) (*Result, error) {
	cfg = defaults(cfg)

	pkgs, err := scan.Dirs(scan.Config{Root: cfg.Root, Tags: cfg.Tags, GOOS: cfg.GOOS, GOARCH: cfg.GOARCH}, cfg.Dirs...)
	if err != nil {
		return nil, err
	}

	var errs *multierror.Error
	reg := registrar.New(registrar.Config{Locations: cfg.Locations})
	for _, pkg := range pkgs {
		cfg.Log.WithFields(logrus.Fields{"package": pkg.Name, "dir": pkg.Dir, "sites": len(pkg.Sites)}).Debug("Registering call sites")
		for _, site := range pkg.Sites {
			ordinal, err := reg.Register(site.Level, site.Text, site.Pos)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			if int(ordinal) != site.Value {
				errs = multierror.Append(errs, &OrdinalMismatchError{Site: site, Ordinal: ordinal})
			}
		}
	}

	if err := checkBinding(pkgs); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Result{Tables: reg.Tables(), Packages: pkgs}, nil
}

// checkBinding enforces a single global writer, and one at all when any
// package logs through package global.
func checkBinding(pkgs []*scan.Package) error {
	var writers, implicit []scan.Call
	for _, pkg := range pkgs {
		writers = append(writers, pkg.Writers...)
		implicit = append(implicit, pkg.Implicit...)
	}

	var errs *multierror.Error
	for i := 1; i < len(writers); i++ {
		errs = multierror.Append(errs, &BindingError{Err: stlog.ErrDuplicateGlobalBinding, First: writers[0], Second: &writers[i]})
	}
	if len(writers) == 0 && len(implicit) > 0 {
		errs = multierror.Append(errs, &BindingError{Err: stlog.ErrMissingGlobalBinding, First: implicit[0]})
	}
	return errs.ErrorOrNil()
}

// Generate runs the build step and writes the requested outputs.
func Generate(cfg Config) (*Result, error) {
	cfg = defaults(cfg)
	if !cfg.Embed && cfg.Manifest == "" {
		return nil, ErrNoOutput
	}

	res, err := Run(cfg)
	if err != nil {
		return nil, err
	}

	// Render everything before touching the filesystem.
	var src []byte
	if cfg.Embed {
		pkg := cfg.Package
		if pkg == "" {
			pkg = packageIn(res.Packages, filepath.Dir(cfg.Output))
		}
		if pkg == "" {
			return nil, fmt.Errorf("no scanned package in %s, set the package name", filepath.Dir(cfg.Output))
		}
		src, err = Source(pkg, res.Tables)
		if err != nil {
			return nil, err
		}
	}

	var manifest bytes.Buffer
	if cfg.Manifest != "" {
		if err := metadata.WriteManifest(&manifest, res.Tables); err != nil {
			return nil, err
		}
	}

	log := cfg.Log.WithField("fingerprint", fmt.Sprintf("%016x", res.Tables.Fingerprint))
	if src != nil {
		if err := os.WriteFile(cfg.Output, src, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", cfg.Output, err)
		}
		log.WithField("file", cfg.Output).Info("Wrote metadata region")
	}
	if cfg.Manifest != "" {
		if err := os.WriteFile(cfg.Manifest, manifest.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", cfg.Manifest, err)
		}
		log.WithField("file", cfg.Manifest).Info("Wrote manifest")
	}
	return res, nil
}

func defaults(cfg Config) Config {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}
	if cfg.Root == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Root = wd
		}
	}
	if cfg.Output == "" {
		cfg.Output = filepath.Join(cfg.Dirs[0], DefaultOutput)
	}
	return cfg
}

func packageIn(pkgs []*scan.Package, dir string) string {
	for _, pkg := range pkgs {
		if filepath.Clean(pkg.Dir) == filepath.Clean(dir) {
			return pkg.Name
		}
	}
	return ""
}

var source = template.Must(template.New("source").Parse(`// Code generated by stlog generate. DO NOT EDIT.

package {{ .Package }}

import "github.com/tarmac-project/stlog"

// stlogRegion holds the call site tables of this program, fingerprint {{ .Fingerprint }}.
const stlogRegion = {{ .Region }}

func init() {
	stlog.Retain(stlogRegion)
}
`))

// Source renders the generated Go file for tables.
func Source(pkg string, t metadata.Tables) ([]byte, error) {
	var buf bytes.Buffer
	err := source.Execute(&buf, struct {
		Package     string
		Fingerprint string
		Region      string
	}{
		Package:     pkg,
		Fingerprint: fmt.Sprintf("%016x", metadata.Fingerprint(t)),
		Region:      strconv.Quote(string(metadata.Encode(t))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render source: %w", err)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format source: %w", err)
	}
	return out, nil
}
