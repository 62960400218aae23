package rng

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	mrand "math/rand/v2"
)

// ErrEmptyDistribution возвращается при взвешенном выборе из пустого или
// полностью нулевого набора весов. Это ошибка вызывающего кода, а не данных:
// обработчики обязаны считать её фатальной.
var ErrEmptyDistribution = errors.New("rng: weighted draw over empty distribution")

// Stream - единственный источник случайности симуляции.
//
// Внутри - PCG с явным состоянием: одинаковый сид и одинаковая
// последовательность операций дают одинаковые значения в любом процессе.
// Никто в ядре не имеет права заводить собственный rand: все подсистемы
// получают Stream (или его форк) явным аргументом.
type Stream struct {
	label string
	pcg   *mrand.PCG
	rand  *mrand.Rand
}

// streamSalt подмешивается во второе слово сида, чтобы (seed, 0) и (0, seed)
// не давали родственных последовательностей.
const streamSalt uint64 = 0x9e3779b97f4a7c15

// NewStream создает корневой поток рана.
func NewStream(seed int64, label string) *Stream {
	return newFromWords(uint64(seed), uint64(seed)^streamSalt, label)
}

func newFromWords(w1, w2 uint64, label string) *Stream {
	pcg := mrand.NewPCG(w1, w2)
	return &Stream{
		label: label,
		pcg:   pcg,
		rand:  mrand.New(pcg),
	}
}

// Label возвращает метку потока (для логов и снапшотов).
func (s *Stream) Label() string { return s.label }

// Fork порождает дочерний поток как чистую функцию от (текущее состояние
// родителя, метка). Родитель при этом НЕ продвигается: форк не влияет на его
// последовательность, а сиблинги с разными метками независимы. Благодаря этому
// генерация этажа и, скажем, бросок лута не сдвигают друг другу значения,
// сколько бы раз каждая подсистема ни обращалась к своему потоку.
func (s *Stream) Fork(label string) *Stream {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		// MarshalBinary у PCG не возвращает ошибок; страховка от смены контракта.
		panic(fmt.Sprintf("rng: pcg marshal failed: %v", err))
	}
	h := sha256.New()
	h.Write(state)
	h.Write([]byte(label))
	sum := h.Sum(nil)
	w1 := binary.BigEndian.Uint64(sum[0:8])
	w2 := binary.BigEndian.Uint64(sum[8:16])

	child := s.label + "/" + label
	if s.label == "" {
		child = label
	}
	return newFromWords(w1, w2, child)
}

// IntN - равномерное из [0, n). n должен быть > 0.
func (s *Stream) IntN(n int) int {
	return s.rand.IntN(n)
}

// Range - равномерное из [lo, hi] включительно.
func (s *Stream) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rand.IntN(hi-lo+1)
}

// Float64 - равномерное из [0, 1).
func (s *Stream) Float64() float64 {
	return s.rand.Float64()
}

// Between - равномерное из [lo, hi) для float.
func (s *Stream) Between(lo, hi float64) float64 {
	return lo + s.rand.Float64()*(hi-lo)
}

// Chance - бросок с вероятностью p (p <= 0 никогда, p >= 1 всегда).
func (s *Stream) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rand.Float64() < p
}

// Shuffle - Фишер-Йетс поверх swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rand.Shuffle(n, swap)
}

// WeightedIndex выбирает индекс пропорционально весам. Отрицательные и нулевые
// веса допустимы и просто не выпадают; полностью вырожденный набор - ошибка
// контракта (ErrEmptyDistribution).
func (s *Stream) WeightedIndex(weights []int) (int, error) {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, ErrEmptyDistribution
	}
	draw := s.rand.IntN(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if draw < w {
			return i, nil
		}
		draw -= w
	}
	// Недостижимо при корректной сумме выше.
	return 0, ErrEmptyDistribution
}

// Pick - равновероятный выбор элемента. Пустой срез - ошибка контракта.
func Pick[T any](s *Stream, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyDistribution
	}
	return items[s.IntN(len(items))], nil
}

// PickWeighted - взвешенный выбор элемента, len(items) == len(weights).
func PickWeighted[T any](s *Stream, items []T, weights []int) (T, error) {
	var zero T
	if len(items) != len(weights) {
		return zero, fmt.Errorf("rng: %d items against %d weights", len(items), len(weights))
	}
	idx, err := s.WeightedIndex(weights)
	if err != nil {
		return zero, err
	}
	return items[idx], nil
}

// --- СЕРИАЛИЗАЦИЯ ---

// State снимает внутреннее состояние потока (байты PCG).
func (s *Stream) State() ([]byte, error) {
	return s.pcg.MarshalBinary()
}

// Restore восстанавливает состояние, полученное из State.
func (s *Stream) Restore(state []byte) error {
	if err := s.pcg.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("rng: restore %q: %w", s.label, err)
	}
	return nil
}

// streamJSON - форма потока в сейве.
type streamJSON struct {
	Label string `json:"label"`
	State string `json:"state"`
}

func (s *Stream) MarshalJSON() ([]byte, error) {
	state, err := s.State()
	if err != nil {
		return nil, err
	}
	return json.Marshal(streamJSON{
		Label: s.label,
		State: base64.StdEncoding.EncodeToString(state),
	})
}

func (s *Stream) UnmarshalJSON(data []byte) error {
	var raw streamJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("rng: decode stream: %w", err)
	}
	state, err := base64.StdEncoding.DecodeString(raw.State)
	if err != nil {
		return fmt.Errorf("rng: decode stream state: %w", err)
	}
	pcg := mrand.NewPCG(0, 0)
	if err := pcg.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("rng: restore stream %q: %w", raw.Label, err)
	}
	s.label = raw.Label
	s.pcg = pcg
	s.rand = mrand.New(pcg)
	return nil
}
