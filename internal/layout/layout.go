// Package layout загружает карты кухни и превращает их в станции со
// стабильными id.
package layout

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/station"
)

//go:embed default_kitchen.yaml
var defaultKitchen []byte

var (
	ErrNoStations     = errors.New("layout has no stations")
	ErrBadStation     = errors.New("invalid station entry")
	ErrTooManyStation = errors.New("too many stations of one kind")
)

// Entry одна станция из файла карты. X и Z координаты на полу кухни, на id не влияют.
type Entry struct {
	Type       catalog.StationType `yaml:"type"`
	Ingredient catalog.Ingredient  `yaml:"ingredient,omitempty"`
	X          float64             `yaml:"x"`
	Z          float64             `yaml:"z"`
}

// kind ключ счетчика индексов: станции одного типа и ингредиента
type kind struct {
	t   catalog.StationType
	ing catalog.Ingredient
}

func (e Entry) kind() kind {
	return kind{t: e.Type, ing: e.Ingredient}
}

// Layout разобранная карта кухни
type Layout struct {
	Name     string  `yaml:"name"`
	Stations []Entry `yaml:"stations"`
}

// Default возвращает встроенную кухню
func Default() *Layout {
	l, err := Parse(defaultKitchen)
	if err != nil {
		panic(fmt.Sprintf("built-in layout: %v", err))
	}
	return l
}

// Load читает файл карты; пустой путь дает встроенную кухню
func Load(path string) (*Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// Parse разбирает карту из YAML
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &l, nil
}

func dispenses(t catalog.StationType) bool {
	return t == catalog.Stock || t == catalog.Fridge
}

// Validate проверяет каждую запись по реестру
func (l *Layout) Validate(reg *catalog.Registry) error {
	if len(l.Stations) == 0 {
		return ErrNoStations
	}
	counts := make(map[kind]int)
	for i, e := range l.Stations {
		if e.Type == 0 {
			return fmt.Errorf("%w: #%d has no type", ErrBadStation, i)
		}
		switch {
		case dispenses(e.Type) && e.Ingredient == catalog.None:
			return fmt.Errorf("%w: #%d %s needs an ingredient", ErrBadStation, i, e.Type)
		case !dispenses(e.Type) && e.Ingredient != catalog.None:
			return fmt.Errorf("%w: #%d %s cannot hold %s", ErrBadStation, i, e.Type, e.Ingredient)
		}
		if e.Ingredient != catalog.None {
			if _, ok := reg.Item(e.Ingredient); !ok {
				return fmt.Errorf("%w: #%d unknown item %s", ErrBadStation, i, e.Ingredient)
			}
		}
		counts[e.kind()]++
		if counts[e.kind()] > station.MaxIndex+1 {
			return fmt.Errorf("%w: %s/%s", ErrTooManyStation, e.Type, e.Ingredient)
		}
	}
	return nil
}

// Build создает новые станции. Индекс станции равен числу предыдущих
// записей с тем же типом и ингредиентом.
func (l *Layout) Build() []*station.Station {
	out := make([]*station.Station, 0, len(l.Stations))
	next := make(map[kind]int)
	for _, e := range l.Stations {
		idx := next[e.kind()]
		next[e.kind()]++
		st := station.New(station.ID(e.Type, e.Ingredient, idx), e.Type, e.Ingredient)
		st.X, st.Z = e.X, e.Z
		out = append(out, st)
	}
	return out
}

// Hash отпечаток id станций карты. Клиент сравнивает его со своей картой,
// чтобы не играть с рассинхронизированными id.
func (l *Layout) Hash() string {
	var sb strings.Builder
	next := make(map[kind]int)
	for _, e := range l.Stations {
		idx := next[e.kind()]
		next[e.kind()]++
		fmt.Fprintf(&sb, "%d:%d:%d\n", int(e.Type), int(e.Ingredient), idx)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])[:16]
}
