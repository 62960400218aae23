package engine

import "aether-server/internal/core/rng"

// Таблица опознания. Виды расходников прячутся за случайными
// этикетками: охряное зелье в одном забеге лечит, в другом тем же
// цветом разлит совсем другой отвар. Перестановка бросается один раз
// на забег из потока identify и хранится в сейве.

var potionKinds = []string{"potion_heal"}

var scrollKinds = []string{
	"scroll_firebolt",
	"scroll_blink",
	"scroll_reveal",
	"scroll_silence",
}

var potionLabels = []string{
	"охряное зелье",
	"мутное зелье",
	"пузырящееся зелье",
	"дегтярное зелье",
}

var scrollLabels = []string{
	"свиток на телячьей коже",
	"выцветший свиток",
	"обугленный свиток",
	"пергамент с рунными полосами",
}

// rollHiddenLabels раздает видам этикетки. Этикеток больше, чем видов:
// какое имя достанется виду, не угадать по остатку.
func rollHiddenLabels(stream *rng.Stream) map[string]string {
	labels := make(map[string]string, len(potionKinds)+len(scrollKinds))

	assign := func(kinds, names []string) {
		perm := append([]string(nil), names...)
		stream.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		for i, kind := range kinds {
			labels[kind] = perm[i]
		}
	}
	assign(potionKinds, potionLabels)
	assign(scrollKinds, scrollLabels)
	return labels
}

// hiddenName - имя предмета глазами героя: опознанные виды зовутся
// по-настоящему, остальные - этикеткой забега.
func (s *GameService) hiddenName(baseName, kindID string, identified bool) string {
	if kindID == "" || identified || s.identified[kindID] {
		return baseName
	}
	if label, ok := s.hiddenLabels[kindID]; ok {
		return label
	}
	return baseName
}
