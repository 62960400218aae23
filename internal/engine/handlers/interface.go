package handlers

import (
	"errors"
	"fmt"

	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
)

// ErrInvalidIntent - намерение отклонено: состояние не тронуто, ход не
// потрачен. Текст отказа уходит игроку строкой журнала. Проверяется
// через errors.Is.
var ErrInvalidIntent = errors.New("invalid intent")

// IntentError несет человекочитаемую причину отказа.
type IntentError struct {
	Msg string
}

func (e *IntentError) Error() string { return e.Msg }

func (e *IntentError) Is(target error) bool { return target == ErrInvalidIntent }

// Reject собирает отказ с текстом для журнала.
func Reject(format string, args ...any) error {
	return &IntentError{Msg: fmt.Sprintf(format, args...)}
}

// EntityFinder резолвит ID в живую сущность.
type EntityFinder interface {
	GetEntity(id types.EntityID) *domain.Entity
}

// Context - все, до чего обработчику позволено дотянуться. Обработчики
// мутируют мир напрямую; чего в контексте нет, того для них не
// существует.
type Context struct {
	Floor  *domain.Floor
	Actor  *domain.Entity
	Player *domain.Entity

	Finder EntityFinder
	// Combat - боевой поток случайности. Все броски резолва идут из
	// него, в порядке исполнения действий.
	Combat *rng.Stream

	// Spawn вводит новую сущность в мир: арена выдает ID, этаж - место.
	Spawn func(*domain.Entity) *domain.Entity
	// Despawn гасит сущность насовсем (поднятый с пола предмет).
	Despawn func(*domain.Entity)
	// Queue дописывает действие в хвост очереди текущей фазы.
	Queue func(domain.Action)
	// Identify помечает вид расходника опознанным до конца забега.
	Identify func(kindID string)
	// RequestTransition просит планировщик сменить этаж после проверки
	// исхода: +1 вниз, -1 вверх.
	RequestTransition func(delta int)
	// RequestWin взводит флаг победы для фазы проверки исхода.
	RequestWin func()
}

// Result - итог успешного действия: строки журнала и их тон.
type Result struct {
	Msgs []string
	Kind string // INFO | COMBAT; пустой читается как INFO
}

// HandlerFunc - исполнитель одного действия. ErrInvalidIntent означает
// "ход не потрачен"; любая другая ошибка - внутренняя.
type HandlerFunc func(ctx Context, a domain.Action) (Result, error)

// EmptyResult - успех без строк журнала.
func EmptyResult() (Result, error) { return Result{}, nil }
