package main

import (
	"flag"
	"fmt"
	"os"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
	"aether-server/pkg/dungeon"
	"aether-server/pkg/logger"
)

// seedcheck прогоняет генератор этажей по диапазону сидов и печатает
// гистограмму попыток. Инструмент настройки валидатора: если хвост
// гистограммы ползет к бюджету, правила генерации пора ослаблять.
//
//	go run ./tools/seedcheck -from 1 -to 2000 -algo caves -depths 8

func main() {
	logger.InitQuiet()

	var from, to int64
	var algoName string
	var depths int
	flag.Int64Var(&from, "from", 1, "first seed")
	flag.Int64Var(&to, "to", 1000, "last seed")
	flag.StringVar(&algoName, "algo", "rooms", "floor generator: rooms or caves")
	flag.IntVar(&depths, "depths", domain.MaxFloors, "generate floors 1..N per seed")
	flag.Parse()

	algo, err := dungeon.ParseAlgorithm(algoName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if from > to {
		from, to = to, from
	}

	histogram := make(map[int]int)
	var failures []string
	floors := 0

	for seed := from; seed <= to; seed++ {
		root := rng.NewStream(seed, "root")
		for depth := 1; depth <= depths; depth++ {
			gen := root.Fork(fmt.Sprintf("floor:%d", depth))
			res, err := dungeon.Generate(depth, algo, gen)
			if err != nil {
				failures = append(failures, fmt.Sprintf("seed %d depth %d: %v", seed, depth, err))
				continue
			}
			histogram[res.Attempts]++
			floors++
		}
	}

	fmt.Printf("algorithm %s, seeds %d..%d, depths 1..%d: %d floors generated\n",
		algo, from, to, depths, floors)
	fmt.Println("attempts histogram:")
	for attempts := 1; attempts <= dungeon.MaxGenAttempts; attempts++ {
		n := histogram[attempts]
		if n == 0 {
			continue
		}
		fmt.Printf("  %2d: %6d  %s\n", attempts, n, bar(n, floors))
	}

	if len(failures) > 0 {
		fmt.Printf("\n%d FAILURES:\n", len(failures))
		for _, f := range failures {
			fmt.Println("  " + f)
		}
		os.Exit(1)
	}
	fmt.Println("no failures")
}

// bar - грубая шкала долей для чтения гистограммы глазами.
func bar(n, total int) string {
	if total == 0 {
		return ""
	}
	width := n * 50 / total
	out := make([]byte, width)
	for i := range out {
		out[i] = '#'
	}
	return string(out)
}
