package domain

import "strings"

// TrainType identifica el operador ferroviario elegido en el primer paso.
type TrainType string

const (
	TrainTypeSRT TrainType = "srt"
	TrainTypeKTX TrainType = "ktx"
)

// ParseTrainType normaliza el valor recibido en la ruta.
func ParseTrainType(raw string) (TrainType, bool) {
	switch TrainType(strings.ToLower(strings.TrimSpace(raw))) {
	case TrainTypeSRT:
		return TrainTypeSRT, true
	case TrainTypeKTX:
		return TrainTypeKTX, true
	default:
		return "", false
	}
}
