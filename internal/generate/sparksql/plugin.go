// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package sparksql generates Spark SQL CREATE TABLE statements from a
// specification.
package sparksql

import (
	"bytes"
	"embed"
	"io"
	"regexp"
	"slices"
	"strings"
	"text/template"
	"unicode"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "sparksql"

var (
	// ErrCircularReference indicates structures that contain each other and
	// so cannot be inlined as STRUCT columns.
	ErrCircularReference = errors.New("circular type reference")

	// ErrUnknownTable indicates a tables option naming no structure.
	ErrUnknownTable = errors.New("unknown table structure")
)

var (
	simpleName     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	databaseName   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	formatProvider = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)
)

//go:embed sparksql.sql.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("sparksql.sql.tmpl").Funcs(template.FuncMap{
	"last": func(i int, columns []column) bool {
		return i == len(columns)-1
	},
	"literal": literal,
}).ParseFS(tmplFS, "sparksql.sql.tmpl"))

// Options configures the plugin.
type Options struct {
	// Database qualifies every table name.
	Database string `yaml:"database"`
	// Using is the table provider, e.g. delta or parquet.
	Using string `yaml:"using"`
	// Tables restricts the statements to the named structures.
	Tables []string `yaml:"tables"`
}

// Plugin writes one .sql file with a table per structure of the root
// document. Referenced structures become STRUCT columns.
type Plugin struct {
	opts Options
}

// New returns a Plugin with the given options.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts}
}

// Factory builds the plugin from raw catalog options.
func Factory(options *yaml.Node) (plugin.Plugin, error) {
	var opts Options
	if err := plugin.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Database != "" && !databaseName.MatchString(opts.Database) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "database %q", opts.Database)
	}
	if opts.Using != "" && !formatProvider.MatchString(opts.Using) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "using %q", opts.Using)
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

type table struct {
	Name    string
	Comment string
	Columns []column
}

type column struct {
	Name    string
	Type    string
	NotNull bool
	Comment string
}

// Generate writes <slug>.sql.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	src, err := p.Source(c)
	if err != nil {
		return nil, err
	}
	name := generate.Slug(c.Spec()) + ".sql"
	a, err := out.Write(name, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Source returns the DDL statements for c.
func (p *Plugin) Source(c *plugin.Context) ([]byte, error) {
	spec := c.Spec()
	for _, name := range p.opts.Tables {
		if _, ok := spec.Structure(name); !ok {
			return nil, errors.Wrapf(ErrUnknownTable, "%q", name)
		}
	}

	b := &builder{c: c, visiting: make(map[*model.Structure]bool)}
	var tables []table
	for _, st := range spec.Structures() {
		if len(p.opts.Tables) > 0 && !slices.Contains(p.opts.Tables, st.Name) {
			continue
		}
		cols, err := b.columns(st.Name, st)
		if err != nil {
			return nil, err
		}
		name := quote(lowerSnake(st.Name))
		if p.opts.Database != "" {
			name = p.opts.Database + "." + name
		}
		tables = append(tables, table{Name: name, Comment: st.Description, Columns: cols})
	}

	data := map[string]any{
		"Title":   spec.Title,
		"Version": spec.Version,
		"Using":   p.opts.Using,
		"Tables":  tables,
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "sparksql.sql.tmpl", data); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	return buf.Bytes(), nil
}

type builder struct {
	c        *plugin.Context
	visiting map[*model.Structure]bool
}

func (b *builder) columns(path string, st *model.Structure) ([]column, error) {
	if b.visiting[st] {
		return nil, errors.Wrapf(ErrCircularReference, "%s contains %s", path, st.Name)
	}
	b.visiting[st] = true
	defer delete(b.visiting, st)

	return b.fields(path, b.c.Spec().AllFields(st))
}

func (b *builder) fields(path string, fields []*model.Field) ([]column, error) {
	cols := make([]column, 0, len(fields))
	for _, f := range fields {
		typ, err := b.typeOf(path+"."+f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		cols = append(cols, column{
			Name:    quote(f.Name),
			Type:    typ,
			NotNull: !f.Optional,
			Comment: f.Description,
		})
	}
	return cols, nil
}

func (b *builder) typeOf(path string, t model.TypeRef) (string, error) {
	switch t := t.(type) {
	case model.Primitive:
		return primitive(t.Core), nil
	case *model.Primitive:
		return primitive(t.Core), nil
	case *model.NamedRef:
		return b.ref(path, t)
	case *model.EnumRef:
		return "STRING", nil
	case *model.ListOf:
		elem, err := b.typeOf(path, t.Elem)
		if err != nil {
			return "", err
		}
		return "ARRAY<" + elem + ">", nil
	case *model.InlineStructure:
		cols, err := b.fields(path, t.Fields)
		if err != nil {
			return "", err
		}
		return renderStruct(cols), nil
	default:
		return "", errors.Newf("unsupported type %T at %s", t, path)
	}
}

// ref inlines a referenced structure. Enumerations are stored as strings.
func (b *builder) ref(path string, r model.Reference) (string, error) {
	target, ok := r.Target()
	if !ok {
		return "", errors.Wrapf(plugin.ErrUnresolvedModel, "unbound reference %s at %s", r.Symbol(), path)
	}
	def, ok := b.c.Spec().Deref(target)
	if !ok {
		return "", errors.Wrapf(plugin.ErrUnresolvedModel, "no definition for %s", target)
	}
	st, ok := def.(*model.Structure)
	if !ok {
		return "STRING", nil
	}
	cols, err := b.columns(path, st)
	if err != nil {
		return "", err
	}
	return renderStruct(cols), nil
}

// renderStruct renders columns as STRUCT<a: TYPE, b: TYPE NOT NULL>.
func renderStruct(cols []column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + ": " + c.Type
		if c.NotNull {
			parts[i] += " NOT NULL"
		}
		if c.Comment != "" {
			parts[i] += " COMMENT " + literal(c.Comment)
		}
	}
	return "STRUCT<" + strings.Join(parts, ", ") + ">"
}

func primitive(core model.CoreType) string {
	switch core {
	case model.Date:
		return "DATE"
	case model.DateTime:
		return "TIMESTAMP"
	case model.Integer:
		return "INT"
	case model.Long:
		return "BIGINT"
	case model.Boolean:
		return "BOOLEAN"
	case model.Float:
		return "FLOAT"
	case model.Double:
		return "DOUBLE"
	case model.BigInteger:
		return "DECIMAL(38,0)"
	case model.BigDecimal:
		return "DECIMAL(38,18)"
	case model.Binary:
		return "BINARY"
	default:
		return "STRING"
	}
}

// quote backquotes identifiers Spark would not accept bare.
func quote(name string) string {
	if simpleName.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// literal renders s as a single-quoted SQL string on one line.
func literal(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// lowerSnake converts a PascalCase name to snake_case, keeping acronyms
// together: OrderLine is order_line and HTTPRequest is http_request.
func lowerSnake(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(r)
	}
	return generate.ToSnakeCase(sb.String())
}
