package types

import (
	"fmt"
	"strconv"
)

// EntityID — 64-битный идентификатор сущности.
//
// Value-type: дешево копируется, сравнивается и сериализуется.
//
// Формат битов (от старших к младшим):
//
//	[ Shard (8) | Kind (8) | Generation (16) | Index (32) ]
//
// Где:
//   - Shard — идентификатор мира / сервера
//   - Kind — вид сущности (игрок, монстр, предмет)
//   - Generation — поколение слота (защита от устаревших ссылок)
//   - Index — индекс слота в арене сущностей
//
// Поколение решает задачу "id не переиспользуется, пока на него ссылаются":
// слот арены освобождается только в конце жизненного цикла этажа, и при
// повторном использовании индекса поколение инкрементируется — старая ссылка
// (из статус-эффекта, из цели AI) перестает резолвиться вместо того, чтобы
// молча указать на чужую сущность.
type EntityID uint64

// NilEntityID — нулевой идентификатор: сущность отсутствует либо ссылка
// еще не инициализирована.
const NilEntityID EntityID = 0

// Конфигурация битов EntityID. Сумма — 64.
const (
	bitsIndex = 32 // до ~4.29 млрд слотов на шард
	bitsGen   = 16 // поколение слота
	bitsKind  = 8  // до 256 видов сущностей
	bitsShard = 8  // до 256 миров / серверов

	shiftGen   = bitsIndex
	shiftKind  = bitsIndex + bitsGen
	shiftShard = bitsIndex + bitsGen + bitsKind

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskKind  = (1 << bitsKind) - 1
	maskShard = (1 << bitsShard) - 1
)

// PackEntityID собирает EntityID из составных частей.
// Диапазоны не проверяются: вызывающий код передает валидные значения.
func PackEntityID(
	shardID uint8,
	kind EntityKind,
	gen uint16,
	index uint32,
) EntityID {
	return EntityID(
		(uint64(shardID) << shiftShard) |
			(uint64(kind) << shiftKind) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

// Index возвращает индекс слота в арене.
func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

// Generation возвращает поколение слота.
func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

// Kind возвращает вид сущности, зашитый в идентификатор.
func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

// Shard возвращает идентификатор шарда, которому принадлежит сущность.
func (id EntityID) Shard() uint8 {
	return uint8((id >> shiftShard) & maskShard)
}

// IsNil проверяет, является ли идентификатор нулевым.
func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// String — человекочитаемая форма для логов и отладки.
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}

	return fmt.Sprintf(
		"[%s gen=%d idx=%d]",
		id.Kind(),
		id.Generation(),
		id.Index(),
	)
}

// MarshalJSON сериализует EntityID строкой: uint64 не переживает
// JavaScript-число без потери точности.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает и строковую, и числовую форму.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}

	*id = EntityID(v)
	return nil
}
