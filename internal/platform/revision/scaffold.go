// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/taibuivan/microblog/pkg/slug"
)

// CreatedAtLayout is the timestamp layout written into scaffolded revisions.
const CreatedAtLayout = "2006-01-02 15:04:05.999999"

// Scaffold describes a new revision file.
type Scaffold struct {
	Package   string
	ID        string
	Parent    string
	Message   string
	CreatedAt time.Time
}

// FileName returns "<id>_<slug>.go".
func (s Scaffold) FileName() string {
	name := slug.Snake(s.Message, slug.DefaultMaxLength)
	if name == "" {
		return s.ID + ".go"
	}
	return s.ID + "_" + name + ".go"
}

var scaffoldTemplate = template.Must(template.New("revision").Parse(`package {{.Package}}

import (
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
)

// Revision{{.ID}}: {{.Message}}.
var Revision{{.ID}} = &revision.Revision{
	ID:        {{printf "%q" .ID}},
	Parent:    {{printf "%q" .Parent}},
	Message:   {{printf "%q" .Message}},
	CreatedAt: created({{printf "%q" .Created}}),
	Upgrade:   []ddl.Operation{},
	Downgrade: []ddl.Operation{},
}

func init() {
	register(Revision{{.ID}})
}
`))

// ErrMultilineMessage is returned when a scaffold message would break out of
// the generated doc comment.
var ErrMultilineMessage = errors.New("revision: message must be a single line")

// Render returns the gofmt-ed Go source of the scaffold.
func (s Scaffold) Render() ([]byte, error) {
	if strings.ContainsFunc(s.Message, unicode.IsControl) {
		return nil, ErrMultilineMessage
	}
	if s.Package == "" {
		s.Package = "migrations"
	}

	var buffer bytes.Buffer
	err := scaffoldTemplate.Execute(&buffer, struct {
		Scaffold
		Created string
	}{Scaffold: s, Created: s.CreatedAt.Format(CreatedAtLayout)})
	if err != nil {
		return nil, fmt.Errorf("revision: render scaffold: %w", err)
	}

	source, err := format.Source(buffer.Bytes())
	if err != nil {
		return nil, fmt.Errorf("revision: format scaffold: %w", err)
	}
	return source, nil
}

// WriteTo writes the scaffold into dir and returns the file path.
// dir is created if missing; an existing file is never overwritten.
func (s Scaffold) WriteTo(dir string) (string, error) {
	source, err := s.Render()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("revision: create %s: %w", dir, err)
	}

	path := filepath.Join(dir, s.FileName())
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("revision: %s already exists", path)
		}
		return "", fmt.Errorf("revision: create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(source); err != nil {
		return "", fmt.Errorf("revision: write %s: %w", path, err)
	}
	return path, nil
}
