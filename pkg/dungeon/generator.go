package dungeon

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
	"aether-server/pkg/logger"
)

// ErrGenerationFailed возвращается, когда бюджет попыток исчерпан, а
// валидного этажа так и не вышло. Это фатальная ошибка: невалидный этаж
// никогда не отдается наружу втихую.
var ErrGenerationFailed = errors.New("dungeon: generation failed")

// MaxGenAttempts — бюджет попыток генерации одного этажа.
const MaxGenAttempts = 50

// Algorithm — способ нарезки этажа.
type Algorithm string

const (
	AlgorithmRooms Algorithm = "rooms"
	AlgorithmCaves Algorithm = "caves"
)

// ParseAlgorithm возвращает алгоритм по строке из конфига.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmRooms, AlgorithmCaves:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("dungeon: unknown algorithm %q", s)
	}
}

// GenResult — готовый этаж и метаданные нарезки.
type GenResult struct {
	Floor *domain.Floor
	// Комнаты BSP-режима в порядке обхода дерева; в пещерах пусто.
	Rooms    []domain.Rect
	Attempts int
}

// Generate строит этаж глубины depth из потока floor:<depth>.
//
// Каждая попытка тянет значения из того же потока, поэтому номер удачной
// попытки и сам этаж — чистая функция от (сид, глубина, алгоритм).
// На последнем этаже спуск заменяется алтарем Ядра, а вокруг него
// очерчивается регион босса.
func Generate(depth int, algo Algorithm, stream *rng.Stream) (*GenResult, error) {
	genLogger := logger.Log.WithFields(logrus.Fields{
		"component": "dungeon",
		"depth":     depth,
		"algorithm": string(algo),
	})

	for attempt := 1; attempt <= MaxGenAttempts; attempt++ {
		f := domain.NewFloor(depth, domain.MapWidth, domain.MapHeight)
		f.Algorithm = string(algo)

		var rooms []domain.Rect
		carved := false
		switch algo {
		case AlgorithmCaves:
			carved = carveCaves(f, stream)
		default:
			rooms, carved = carveRooms(f, stream)
		}
		if !carved {
			genLogger.WithField("attempt", attempt).Debug("Carve produced a degenerate grid, retrying.")
			continue
		}

		if err := postProcess(f, rooms, stream); err != nil {
			genLogger.WithFields(logrus.Fields{"attempt": attempt, "reason": err.Error()}).
				Debug("Post-processing rejected the floor, retrying.")
			continue
		}

		if err := validateFloor(f); err != nil {
			genLogger.WithFields(logrus.Fields{"attempt": attempt, "reason": err.Error()}).
				Debug("Validation rejected the floor, retrying.")
			continue
		}

		f.Attempts = attempt
		genLogger.WithFields(logrus.Fields{
			"attempt":  attempt,
			"entrance": fmt.Sprintf("%d,%d", f.Entrance.X, f.Entrance.Y),
		}).Info("Floor generated.")
		return &GenResult{Floor: f, Rooms: rooms, Attempts: attempt}, nil
	}

	genLogger.Error("Generation retry budget exhausted.")
	return nil, wrapGenFailure(depth, algo)
}

func wrapGenFailure(depth int, algo Algorithm) error {
	return fmt.Errorf("dungeon: floor %d (%s), %d attempts: %w", depth, algo, MaxGenAttempts, ErrGenerationFailed)
}
