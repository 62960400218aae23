package engine

import (
	"github.com/sirupsen/logrus"

	"aether-server/internal/domain"
	"aether-server/pkg/api"
	"aether-server/pkg/logger"
)

// MessageLog - повествовательная лента забега. Записи нумеруются
// сквозным счетчиком, а не временем: лента обязана совпадать байт в
// байт между двумя прогонами одного сида.
type MessageLog struct {
	entries []api.LogEntry
	seq     uint64
}

// Push добавляет строку и возвращает её номер. Лента держит не больше
// domain.LogRetain записей, лишнее срезается спереди.
func (l *MessageLog) Push(turn int, text, kind string) uint64 {
	l.seq++
	l.entries = append(l.entries, api.LogEntry{Seq: l.seq, Turn: turn, Text: text, Kind: kind})
	if len(l.entries) > domain.LogRetain {
		l.entries = l.entries[len(l.entries)-domain.LogRetain:]
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "game_log",
		"turn":      turn,
		"log_type":  kind,
	}).Info(text)
	return l.seq
}

// Tail - копия последних n записей.
func (l *MessageLog) Tail(n int) []api.LogEntry {
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]api.LogEntry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Entries - копия всей удержанной ленты, для сейва.
func (l *MessageLog) Entries() []api.LogEntry {
	out := make([]api.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Restore заменяет ленту загруженной и продолжает её нумерацию.
func (l *MessageLog) Restore(entries []api.LogEntry) {
	l.entries = append([]api.LogEntry(nil), entries...)
	l.seq = 0
	if n := len(l.entries); n > 0 {
		l.seq = l.entries[n-1].Seq
	}
}
