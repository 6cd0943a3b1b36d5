package acquire

// Calibrator maps an integer ADC code to a voltage against a fixed reference
// voltage and full-scale code. The converter quantizes the reference over
// maxCode+1 steps, so the full-scale code 4095 of a 12-bit converter maps
// one step below VRef. Codes are not range checked: negative or
// above-full-scale codes map to out-of-range voltages.
type Calibrator struct {
	vref  float64
	steps float64
}

// NewCalibrator returns a calibrator for the given reference voltage and
// full-scale code, e.g. 3.3 V and 4095 for a 12-bit converter.
func NewCalibrator(vref float64, maxCode int) Calibrator {
	return Calibrator{
		vref:  vref,
		steps: float64(maxCode) + 1,
	}
}

// Voltage converts an ADC code to a voltage. It always succeeds.
func (c Calibrator) Voltage(code int) float64 {
	return float64(code) * c.vref / c.steps
}
