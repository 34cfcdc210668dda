package search

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// Live поиск по мере ввода: непустой запрос выполняется после паузы,
// пустой очищает результаты сразу.
//
// Вызовы onResults не пересекаются. Результат прохода, устаревшего к моменту
// доставки, отбрасывается, поэтому последним вызывающий видит последний ввод.
type Live struct {
	index     *Index
	debouncer *Debouncer
	onResults func(query string, results []models.SearchIndexEntry)

	seq     atomic.Uint64
	deliver sync.Mutex
}

// NewLive создает поиск по мере ввода. onResults вызывается из горутины таймера
// для непустых запросов и синхронно для пустых. Очистка ждет завершения
// доставки, которая уже выполняется.
func NewLive(index *Index, delay time.Duration, onResults func(query string, results []models.SearchIndexEntry)) *Live {
	return &Live{
		index:     index,
		debouncer: NewDebouncer(delay),
		onResults: onResults,
	}
}

// Input обрабатывает очередное значение поля ввода.
func (l *Live) Input(query string) {
	seq := l.seq.Add(1)
	if strings.TrimSpace(query) == "" {
		l.debouncer.Cancel()
		l.deliver.Lock()
		defer l.deliver.Unlock()
		l.onResults(query, nil)
		return
	}
	l.debouncer.Trigger(func() {
		results := l.index.Search(query)

		l.deliver.Lock()
		defer l.deliver.Unlock()
		if l.seq.Load() != seq {
			return
		}
		l.onResults(query, results)
	})
}

// Pending сообщает, ожидает ли запрос выполнения.
func (l *Live) Pending() bool {
	return l.debouncer.Pending()
}

// Close отменяет ожидающий запрос. Проход, еще не начавший доставку, свои
// результаты уже не передаст.
func (l *Live) Close() {
	l.seq.Add(1)
	l.debouncer.Cancel()
}
