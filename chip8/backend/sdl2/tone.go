package sdl2

// Buzzer tone parameters. Samples are signed 8-bit mono.
const (
	SampleRate    = 44100
	ToneFrequency = 440
	toneAmplitude = 24

	// one 60Hz frame of audio
	samplesPerFrame = SampleRate / 60
	// a beep lasts 100ms
	beepSamples = samplesPerFrame * 6
)

// squareWave generates a continuous square wave across calls.
type squareWave struct {
	phase     int
	period    int
	amplitude int8
}

func newSquareWave(sampleRate, frequency int, amplitude int8) *squareWave {
	period := sampleRate / frequency
	if period < 2 {
		period = 2
	}
	return &squareWave{period: period, amplitude: amplitude}
}

// Fill writes len(buf) samples, continuing from where the previous call stopped.
func (w *squareWave) Fill(buf []byte) {
	half := w.period / 2
	for i := range buf {
		sample := w.amplitude
		if w.phase >= half {
			sample = -w.amplitude
		}
		buf[i] = byte(sample)
		w.phase = (w.phase + 1) % w.period
	}
}
