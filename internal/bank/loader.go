package bank

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var defaultData embed.FS

const (
	topicsName    = "topics"
	questionsName = "questions"
)

// Supported source extensions, in lookup order.
var sourceExts = []string{".json", ".yaml", ".yml"}

// Default loads the question bank that ships with the binary.
func Default() (*Bank, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, unavailable("embedded data", err)
	}
	return Load(sub)
}

// LoadDir loads topics and questions from a directory on disk.
func LoadDir(dir string) (*Bank, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, unavailable(dir, err)
	}
	if !info.IsDir() {
		return nil, unavailable(dir, errors.New("not a directory"))
	}
	return Load(os.DirFS(dir))
}

// Load reads topics.{json,yaml} and questions.{json,yaml} from fsys,
// validates their shape and content and returns the resulting Bank.
func Load(fsys fs.FS) (*Bank, error) {
	topicsFile, topicsRaw, err := readSource(fsys, topicsName)
	if err != nil {
		return nil, err
	}
	questionsFile, questionsRaw, err := readSource(fsys, questionsName)
	if err != nil {
		return nil, err
	}

	var topicsDoc topicsDocument
	if err := decodeChecked(topicsFile, topicsRaw, false, &topicsDoc); err != nil {
		return nil, err
	}
	content := make(map[string]TopicContent)
	if err := decodeChecked(questionsFile, questionsRaw, true, &content); err != nil {
		return nil, err
	}

	return New(topicsDoc.Topics, content)
}

// readSource finds the first existing file named base+ext and returns its
// normalized JSON bytes.
func readSource(fsys fs.FS, base string) (string, []byte, error) {
	for _, ext := range sourceExts {
		name := base + ext
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return name, nil, unavailable(name, err)
		}
		raw, err := normalize(name, data)
		if err != nil {
			return name, nil, err
		}
		return name, raw, nil
	}
	return base, nil, unavailable(base+".json", fs.ErrNotExist)
}

// normalize converts YAML sources to JSON so both formats share one
// validation path.
func normalize(name string, data []byte) ([]byte, error) {
	ext := strings.ToLower(path.Ext(name))
	if ext == ".json" {
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidError{Source: name, Problems: []string{err.Error()}}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &InvalidError{Source: name, Problems: []string{fmt.Sprintf("convert to JSON: %v", err)}}
	}
	return raw, nil
}

func decodeChecked(source string, raw []byte, questions bool, out any) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &InvalidError{Source: source, Problems: []string{err.Error()}}
	}
	if err := checkShape(source, doc, questions); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidError{Source: source, Problems: []string{err.Error()}}
	}
	return nil
}
