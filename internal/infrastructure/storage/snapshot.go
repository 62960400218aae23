package storage

import (
	"encoding/json"

	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/pkg/api"
)

// Snapshot - полное сериализуемое состояние забега. Всё, что в него
// не попало, восстановимо: пространственные индексы пересобираются из
// арены, видимость пересчитывается, потоки этажей снова форкаются от
// корневого. Загрузка снапшота и проигрывание тех же намерений обязаны
// дать байт-в-байт тот же забег.
type Snapshot struct {
	SaveID    string `json:"saveId"`
	CreatedAt int64  `json:"createdAt"`

	Seed      int64  `json:"seed"`
	Algorithm string `json:"algorithm"`
	HeroName  string `json:"heroName,omitempty"`

	Turn       int            `json:"turn"`
	Phase      uint8          `json:"phase"`
	Depth      int            `json:"depth"`
	PlayerID   types.EntityID `json:"playerId"`
	PlayerActs int            `json:"playerActs,omitempty"`

	// Потоки, которые продвигаются по ходу забега. Ключи: root,
	// combat, ai.
	Streams map[string]json.RawMessage `json:"streams"`

	Identified map[string]bool   `json:"identified,omitempty"`
	Labels     map[string]string `json:"labels"`

	Floors      map[int]*domain.Floor `json:"floors"`
	Entities    []*domain.Entity      `json:"entities"`
	Generations []uint16              `json:"generations"`

	Log []api.LogEntry `json:"log,omitempty"`
}
