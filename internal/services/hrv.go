package services

import (
	"math"
	"sort"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
)

// samplesPerMinute - часы присылают порцию значений примерно раз в 5 секунд
const samplesPerMinute = 12

// minWindowSamples - окна короче этого отбрасываются
const minWindowSamples = 3

// GroupByWindow сортирует измерения по времени и режет их на окна по windowMinutes*12 штук.
func GroupByWindow(samples []entities.StoredSample, windowMinutes int) [][]entities.StoredSample {
	if len(samples) == 0 || windowMinutes <= 0 {
		return nil
	}

	sorted := make([]entities.StoredSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	size := windowMinutes * samplesPerMinute
	var windows [][]entities.StoredSample
	for i := 0; i < len(sorted); i += size {
		end := min(i+size, len(sorted))
		if end-i >= minWindowSamples {
			windows = append(windows, sorted[i:end])
		}
	}
	return windows
}

// ComputeHRV считает SDNN и RMSSD по всем межударным интервалам окна.
// ok=false, если интервалов меньше двух.
func ComputeHRV(window []entities.StoredSample) (sdnn, rmssd float64, ok bool) {
	var ibi []float64
	for _, sample := range window {
		for _, v := range sample.IBI {
			ibi = append(ibi, float64(v))
		}
	}
	if len(ibi) < 2 {
		return 0, 0, false
	}

	var mean float64
	for _, v := range ibi {
		mean += v
	}
	mean /= float64(len(ibi))

	var variance float64
	for _, v := range ibi {
		variance += (v - mean) * (v - mean)
	}
	sdnn = math.Sqrt(variance / float64(len(ibi)))

	var sumSq float64
	for i := 1; i < len(ibi); i++ {
		d := ibi[i] - ibi[i-1]
		sumSq += d * d
	}
	rmssd = math.Sqrt(sumSq / float64(len(ibi)-1))
	return sdnn, rmssd, true
}
