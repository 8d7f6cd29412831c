package chip8

import (
	"testing"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
)

// drawLoop redraws the '0' glyph at a moving origin forever.
var drawLoop = []uint16{
	0x00E0, // CLS
	0xA050, // LD I, $050
	0xD015, // DRW V0, V1, 5
	0x7001, // ADD V0, 1
	0x7102, // ADD V1, 2
	0xD015, // DRW V0, V1, 5
	0x1202, // JP $202
}

func BenchmarkMachineHeadless(b *testing.B) {
	benchmarks := []struct {
		name   string
		frames int
	}{
		{"frames_100", 100},
		{"frames_1000", 1000},
	}

	for _, tc := range benchmarks {
		b.Run(tc.name, func(b *testing.B) {
			m := NewWithConfig(Config{CyclesPerFrame: 10, Seed: 1})
			if err := m.Load(program(drawLoop...)); err != nil {
				b.Fatalf("Failed to load program: %v", err)
			}

			// Use large frame count to avoid quit condition allocations
			hBackend := headless.New(tc.frames*(b.N+1), headless.SnapshotConfig{})
			if err := hBackend.Init(backend.BackendConfig{Title: "Benchmark"}); err != nil {
				b.Fatalf("Failed to initialize backend: %v", err)
			}
			defer hBackend.Cleanup()

			m.SetFrameLimiter(nil)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				for frameCount := 0; frameCount < tc.frames; frameCount++ {
					if err := m.RunUntilFrame(); err != nil {
						b.Fatalf("Run failed: %v", err)
					}
					if _, err := hBackend.Update(m.GetCurrentFrame()); err != nil {
						b.Fatalf("Backend update failed: %v", err)
					}
				}
			}
		})
	}
}
