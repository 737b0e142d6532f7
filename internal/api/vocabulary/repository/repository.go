package vocabularyRepository

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"SignCoach/internal/entity"
	jsoniter "github.com/json-iterator/go"
)

//go:embed signs.json
var defaultSigns []byte

var (
	ErrEmptyVocabulary = errors.New("vocabulary has no signs")
)

// IVocabulary is a read-only view of the sign vocabulary.
type IVocabulary interface {
	List() []entity.Sign
	Lookup(key string) (entity.Sign, bool)
	Len() int
}

type vocabulary struct {
	signs  []entity.Sign
	byID   map[string]int
	byName map[string]int
}

// Load reads the vocabulary from path, or the built-in list when path is
// empty. The result never changes after Load returns.
func Load(path string) (IVocabulary, error) {
	data := defaultSigns
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (IVocabulary, error) {
	var signs []entity.Sign
	if err := jsoniter.Unmarshal(data, &signs); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if len(signs) == 0 {
		return nil, ErrEmptyVocabulary
	}

	v := &vocabulary{
		signs:  signs,
		byID:   make(map[string]int, len(signs)),
		byName: make(map[string]int, len(signs)),
	}
	for i, s := range signs {
		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("vocabulary entry %d: id and name are required", i)
		}
		if _, dup := v.byID[s.ID]; dup {
			return nil, fmt.Errorf("vocabulary entry %d: duplicate id %q", i, s.ID)
		}
		v.byID[s.ID] = i
		if _, dup := v.byName[strings.ToLower(s.Name)]; !dup {
			v.byName[strings.ToLower(s.Name)] = i
		}
	}

	return v, nil
}

func (v *vocabulary) List() []entity.Sign {
	out := make([]entity.Sign, len(v.signs))
	copy(out, v.signs)
	return out
}

// Lookup matches key against sign ids first, then display names ignoring case.
func (v *vocabulary) Lookup(key string) (entity.Sign, bool) {
	if i, ok := v.byID[key]; ok {
		return v.signs[i], true
	}
	if i, ok := v.byName[strings.ToLower(key)]; ok {
		return v.signs[i], true
	}
	return entity.Sign{}, false
}

func (v *vocabulary) Len() int {
	return len(v.signs)
}
