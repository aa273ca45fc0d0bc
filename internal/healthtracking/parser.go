package healthtracking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// samplesEnvelope - ответ /heartrate: либо массив, либо объект со списком
type samplesEnvelope struct {
	Samples []entities.HeartRateSample `json:"samples"`
}

// ParseSamples разбирает ответ /heartrate. Поддерживает массив и {"samples": [...]}.
// Измерения без времени получают текущее время.
func ParseSamples(body []byte) ([]entities.HeartRateSample, error) {
	var samples []entities.HeartRateSample
	if err := json.Unmarshal(body, &samples); err != nil {
		var env samplesEnvelope
		if envErr := json.Unmarshal(body, &env); envErr != nil {
			return nil, fmt.Errorf("не удалось распарсить измерения пульса: %w", err)
		}
		samples = env.Samples
	}

	now := time.Now()
	for i := range samples {
		if samples[i].Timestamp.IsZero() {
			samples[i].Timestamp = now
		}
	}
	return samples, nil
}

// ToTrackedData переводит сырое измерение в отправляемое значение.
// Возвращает false, если пульс недостоверен.
func ToTrackedData(sample entities.HeartRateSample) (entities.TrackedData, bool) {
	if !sample.ValidHR() {
		return entities.TrackedData{}, false
	}
	return entities.TrackedData{HR: sample.HR, IBI: sample.ValidIBI()}, true
}

// EncodeTrackedDataList сериализует список значений для отправки по пути /msg.
func EncodeTrackedDataList(values []entities.TrackedData) ([]byte, error) {
	if values == nil {
		values = []entities.TrackedData{}
	}
	return json.Marshal(values)
}

// ParseTrackedDataList разбирает payload сообщения /msg. Значения не валидируются,
// см. ValidateTrackedData.
func ParseTrackedDataList(payload []byte) ([]entities.TrackedData, error) {
	var values []entities.TrackedData
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrMessageDecode, "payload не является списком TrackedData", err)
	}
	return values, nil
}

// ValidateTrackedData проверяет диапазоны пульса и интервалов одного значения.
func ValidateTrackedData(data entities.TrackedData) error {
	if err := validate.Struct(data); err != nil {
		return apperrors.NewAppError(apperrors.ErrMessageInvalid,
			fmt.Sprintf("значение hr=%d не прошло валидацию", data.HR), err)
	}
	return nil
}
