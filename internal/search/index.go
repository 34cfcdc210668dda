// Package search реализует поиск по предварительно собранному JSON-индексу
// сайта: регистронезависимый поиск подстроки по заголовку, тексту,
// описанию и тегам.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// MaxResults максимальное число результатов поиска.
const MaxResults = 10

// ErrEmptySource источник индекса не задан.
var ErrEmptySource = errors.New("search index source is empty")

type document struct {
	entry       models.SearchIndexEntry
	title       string
	content     string
	description string
	tags        []string
}

// Index неизменяемый поисковый индекс.
type Index struct {
	docs []document
}

// NewIndex строит индекс из записей. Порядок записей сохраняется в выдаче.
func NewIndex(entries []models.SearchIndexEntry) *Index {
	docs := make([]document, 0, len(entries))
	for _, e := range entries {
		tags := make([]string, 0, len(e.Tags))
		for _, tag := range e.Tags {
			tags = append(tags, strings.ToLower(tag))
		}
		docs = append(docs, document{
			entry:       e,
			title:       strings.ToLower(e.Title),
			content:     strings.ToLower(e.Content),
			description: strings.ToLower(e.Description),
			tags:        tags,
		})
	}
	return &Index{docs: docs}
}

// Len возвращает число записей.
func (i *Index) Len() int {
	return len(i.docs)
}

// Entries возвращает копию всех записей индекса.
func (i *Index) Entries() []models.SearchIndexEntry {
	out := make([]models.SearchIndexEntry, 0, len(i.docs))
	for _, d := range i.docs {
		out = append(out, d.entry)
	}
	return out
}

// Search возвращает не более MaxResults записей, содержащих query.
// Пустой запрос дает пустой результат.
func (i *Index) Search(query string) []models.SearchIndexEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []models.SearchIndexEntry
	for _, d := range i.docs {
		if !d.matches(q) {
			continue
		}
		out = append(out, d.entry)
		if len(out) == MaxResults {
			break
		}
	}
	return out
}

func (d document) matches(q string) bool {
	if strings.Contains(d.title, q) || strings.Contains(d.content, q) || strings.Contains(d.description, q) {
		return true
	}
	for _, tag := range d.tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	return false
}

// Load читает индекс из файла или по http(s)-адресу.
func Load(ctx context.Context, source string) (*Index, error) {
	const op = "search.Load"

	if source == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySource)
	}

	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		raw, err = fetch(ctx, source)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var entries []models.SearchIndexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%s: decode index: %w", op, err)
	}
	return NewIndex(entries), nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
}
