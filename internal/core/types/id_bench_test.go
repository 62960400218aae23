package types

import "testing"

var (
	sinkID    EntityID
	sinkU32   uint32
	sinkKind  EntityKind
	benchMask = uint32(1<<20 - 1)
)

func BenchmarkPackEntityID(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkID = PackEntityID(1, KindMonster, uint16(i), uint32(i)&benchMask)
	}
}

func BenchmarkEntityID_Accessors(b *testing.B) {
	id := PackEntityID(3, KindItem, 12, 98765)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkU32 = id.Index()
		sinkKind = id.Kind()
	}
}
