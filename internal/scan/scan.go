// Package scan is the first pass of the stlog build step: it reads Go
// packages and collects their call sites and global logger usage in source
// order.
package scan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/metadata"
)

const (
	// ImportPath is the import path of the stlog package.
	ImportPath = "github.com/tarmac-project/stlog"

	// GlobalImportPath is the import path of the global dispatch package.
	GlobalImportPath = ImportPath + "/global"
)

var (
	// ErrNoMessage is returned for a site constant without a line comment.
	ErrNoMessage = errors.New("call site has no message")

	// ErrSiteValue is returned for a site constant whose value is not iota based.
	ErrSiteValue = errors.New("call site value must be iota, iota+N or an integer")

	// ErrBlankSite is returned for a site declared with the blank identifier.
	ErrBlankSite = errors.New("call site must be named")
)

var siteTypes = map[string]stlog.Level{
	"ErrorSite": stlog.LevelError,
	"WarnSite":  stlog.LevelWarn,
	"InfoSite":  stlog.LevelInfo,
	"DebugSite": stlog.LevelDebug,
	"TraceSite": stlog.LevelTrace,
}

var implicitCalls = map[string]bool{"Error": true, "Warn": true, "Info": true, "Debug": true, "Trace": true}

var writerCalls = map[string]bool{"Set": true, "MustSet": true}

// Site is a call site constant.
type Site struct {
	Level stlog.Level
	Name  string
	Text  string
	// Value is the declared value of the constant.
	Value int
	// Iota is the constant's index in its declaration block.
	Iota int
	Pos   metadata.Location
}

// Call is a call expression of interest.
type Call struct {
	Func string
	Pos  metadata.Location
}

// Package is what the scan found in one package directory.
type Package struct {
	Name string
	Dir  string

	// Sites in file name order, then source order.
	Sites []Site

	// Writers are global.Set and global.MustSet calls.
	Writers []Call

	// Implicit are logging calls through package global.
	Implicit []Call
}

// Config controls which files are scanned and how positions are reported.
type Config struct {
	// Root is the directory positions are made relative to. Empty keeps
	// paths as given.
	Root string

	// Tags are extra build tags, such as "tinygo", used to select files.
	Tags []string

	// GOOS and GOARCH override the host's target when set.
	GOOS   string
	GOARCH string
}

// context returns the build context selecting the files of the target.
func (cfg Config) context() build.Context {
	ctx := build.Default
	ctx.BuildTags = append(append([]string(nil), ctx.BuildTags...), cfg.Tags...)
	if cfg.GOOS != "" {
		ctx.GOOS = cfg.GOOS
	}
	if cfg.GOARCH != "" {
		ctx.GOARCH = cfg.GOARCH
	}
	return ctx
}

// Dirs scans every directory, sorted by path so the result does not depend
// on argument order.
func Dirs(cfg Config, dirs ...string) ([]*Package, error) {
	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)

	var (
		pkgs []*Package
		errs *multierror.Error
	)
	for _, dir := range sorted {
		pkg, err := Dir(cfg, dir)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, errs.ErrorOrNil()
}

// Dir scans the non-test Go files of the package in dir that match the
// target selected by cfg.
func Dir(cfg Config, dir string) (*Package, error) {
	ctx := cfg.context()
	bp, err := ctx.ImportDir(dir, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %s: %w", dir, err)
	}

	files := append([]string(nil), bp.GoFiles...)
	sort.Strings(files)

	// Positions are made relative from absolute paths on both sides.
	base := dir
	if cfg.Root != "" {
		if cfg.Root, err = filepath.Abs(cfg.Root); err != nil {
			return nil, err
		}
		if base, err = filepath.Abs(dir); err != nil {
			return nil, err
		}
	}

	s := &scanner{cfg: cfg, fset: token.NewFileSet(), pkg: &Package{Name: bp.Name, Dir: dir}}
	for _, name := range files {
		f, err := parser.ParseFile(s.fset, filepath.Join(base, name), nil, parser.ParseComments)
		if err != nil {
			s.errs = multierror.Append(s.errs, err)
			continue
		}
		s.file(f)
	}
	return s.pkg, s.errs.ErrorOrNil()
}

type scanner struct {
	cfg  Config
	fset *token.FileSet
	pkg  *Package
	errs *multierror.Error

	// local names of the stlog and global imports in the current file
	stlogNames  map[string]bool
	globalNames map[string]bool
}

func (s *scanner) file(f *ast.File) {
	s.stlogNames = map[string]bool{}
	s.globalNames = map[string]bool{}
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path[strings.LastIndex(path, "/")+1:]
		if imp.Name != nil {
			name = imp.Name.Name
		}
		switch path {
		case ImportPath:
			s.stlogNames[name] = true
		case GlobalImportPath:
			s.globalNames[name] = true
		}
	}

	// Const declarations inside function bodies hold sites too.
	ast.Inspect(f, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.GenDecl:
			if n.Tok == token.CONST {
				s.constDecl(n)
			}
		case *ast.CallExpr:
			s.call(n)
		}
		return true
	})
}

func (s *scanner) call(call *ast.CallExpr) {
	fn, ok := s.selector(call.Fun, s.globalNames)
		if !ok {
		return
	}
	c := Call{Func: fn, Pos: s.position(call.Pos())}
	switch {
	case writerCalls[fn]:
		s.pkg.Writers = append(s.pkg.Writers, c)
	case implicitCalls[fn]:
		s.pkg.Implicit = append(s.pkg.Implicit, c)
	}
}

// constDecl collects the sites of one const declaration. A ValueSpec without a
// type and values repeats the previous ones, as the language does.
func (s *scanner) constDecl(gd *ast.GenDecl) {
	var (
		typ    ast.Expr
		values []ast.Expr
	)
	for index, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		if vs.Type != nil || len(vs.Values) > 0 {
			typ, values = vs.Type, vs.Values
		}

		level, ok := s.siteLevel(typ)
		if !ok {
			continue
		}

		for i, name := range vs.Names {
			pos := s.position(name.Pos())
			if name.Name == "_" {
				s.errs = multierror.Append(s.errs, fmt.Errorf("%s: %w", pos, ErrBlankSite))
				continue
			}

			text := ""
			if vs.Comment != nil {
				text = strings.TrimSpace(vs.Comment.Text())
			}
			if text == "" {
				s.errs = multierror.Append(s.errs, fmt.Errorf("%s: %s: %w", pos, name.Name, ErrNoMessage))
				continue
			}

			value := index
			if i < len(values) {
				v, ok := eval(values[i], index)
				if !ok {
					s.errs = multierror.Append(s.errs, fmt.Errorf("%s: %s: %w", pos, name.Name, ErrSiteValue))
					continue
				}
				value = v
			}

			s.pkg.Sites = append(s.pkg.Sites, Site{Level: level, Name: name.Name, Text: text, Value: value, Iota: index, Pos: pos})
		}
	}
}

func (s *scanner) siteLevel(typ ast.Expr) (stlog.Level, bool) {
	name, ok := s.selector(typ, s.stlogNames)
	if !ok {
		return stlog.LevelOff, false
	}
	level, ok := siteTypes[name]
	return level, ok
}

// selector returns Sel of an expression pkg.Sel where pkg is one of names.
func (s *scanner) selector(e ast.Expr, names map[string]bool) (string, bool) {
	sel, ok := e.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok || !names[x.Name] {
		return "", false
	}
	return sel.Sel.Name, true
}

func (s *scanner) position(p token.Pos) metadata.Location {
	pos := s.fset.Position(p)
	file := pos.Filename
	if s.cfg.Root != "" {
		if rel, err := filepath.Rel(s.cfg.Root, file); err == nil {
			file = rel
		}
	}
	return metadata.Location{File: filepath.ToSlash(file), Line: pos.Line}
}

// eval evaluates the small set of constant expressions allowed for sites.
func eval(e ast.Expr, index int) (int, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		return index, e.Name == "iota"
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return 0, false
		}
		v, err := strconv.ParseInt(e.Value, 0, 64)
		return int(v), err == nil
	case *ast.ParenExpr:
		return eval(e.X, index)
	case *ast.CallExpr:
		// conversion such as stlog.ErrorSite(iota)
		if len(e.Args) != 1 {
			return 0, false
		}
		return eval(e.Args[0], index)
	case *ast.BinaryExpr:
		x, ok := eval(e.X, index)
		if !ok {
			return 0, false
		}
		y, ok := eval(e.Y, index)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case token.ADD:
			return x + y, true
		case token.SUB:
			return x - y, true
		}
	}
	return 0, false
}
