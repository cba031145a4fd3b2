package orderbook

import "time"

// Settings for the anomaly detector.
type Settings struct {
	WindowSize      int
	MinSamples      int
	WallUSD         float64
	DeltaAbsUSD     float64
	DeltaStdK       float64
	SpreadZ         float64
	ImbalanceZ      float64
	ImbalanceAbs    float64
	VacuumZ         float64
	MajorImbalanceZ float64
	ConfirmWindow   int
	ConfirmHits     int
	Cooldown        time.Duration
	Buckets         Buckets
}

// Buckets are the signature quantization steps.
type Buckets struct {
	MidPlaces int32
	SpreadBps float64
	Imbalance float64
	WallUSD   float64
	DeltaUSD  float64
}

func DefaultSettings() Settings {
	return Settings{
		WindowSize:      48,
		MinSamples:      10,
		WallUSD:         350_000,
		DeltaAbsUSD:     150_000,
		DeltaStdK:       3.0,
		SpreadZ:         3.0,
		ImbalanceZ:      3.0,
		ImbalanceAbs:    0.22,
		VacuumZ:         -2.5,
		MajorImbalanceZ: 4.0,
		ConfirmWindow:   5,
		ConfirmHits:     3,
		Cooldown:        300 * time.Second,
		Buckets: Buckets{
			MidPlaces: 0,
			SpreadBps: 1,
			Imbalance: 0.05,
			WallUSD:   100_000,
			DeltaUSD:  100_000,
		},
	}
}
