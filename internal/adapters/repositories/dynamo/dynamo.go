// Package dynamo хранит измерения пульса и предсказания стресса в DynamoDB.
package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoDB ограничивает BatchWriteItem 25 элементами
const batchSize = 25

const maxRetries = 3

// Client - используемое подмножество API DynamoDB
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NewClient создает клиент DynamoDB. endpoint задаётся для локального DynamoDB.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию AWS: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// Repository реализует хранилища измерений и предсказаний поверх двух таблиц.
type Repository struct {
	client           Client
	samplesTable     string
	predictionsTable string
	logger           *zap.Logger
}

func NewRepository(client Client, samplesTable, predictionsTable string, logger *zap.Logger) *Repository {
	return &Repository{
		client:           client,
		samplesTable:     samplesTable,
		predictionsTable: predictionsTable,
		logger:           logger,
	}
}

// sampleItem - строка таблицы измерений. timestamp_ms - числовой атрибут для фильтра по времени,
// строковый timestamp хранит точное время.
type sampleItem struct {
	ID          string    `dynamodbav:"id"`
	HR          int       `dynamodbav:"hr"`
	IBI         []int     `dynamodbav:"ibi"`
	Timestamp   time.Time `dynamodbav:"timestamp"`
	TimestampMs int64     `dynamodbav:"timestamp_ms"`
}

func toSampleItem(sample entities.StoredSample) sampleItem {
	ts := sample.Timestamp.UTC()
	return sampleItem{ID: sample.ID, HR: sample.HR, IBI: sample.IBI, Timestamp: ts, TimestampMs: ts.UnixMilli()}
}

func (i sampleItem) toSample() entities.StoredSample {
	return entities.StoredSample{ID: i.ID, HR: i.HR, IBI: i.IBI, Timestamp: i.Timestamp}
}

func (r *Repository) SaveSample(ctx context.Context, sample entities.StoredSample) error {
	item, err := attributevalue.MarshalMap(toSampleItem(sample))
	if err != nil {
		return fmt.Errorf("не удалось преобразовать измерение: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.samplesTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("не удалось сохранить измерение %s: %w", sample.ID, err)
	}
	return nil
}

// SamplesSince сканирует таблицу измерений с фильтром по timestamp_ms.
// Фильтр работает с точностью до миллисекунды, остаток отсекается по точному времени.
func (r *Repository) SamplesSince(ctx context.Context, since time.Time) ([]entities.StoredSample, error) {
	sinceValue, err := attributevalue.Marshal(since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("не удалось преобразовать время: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.samplesTable),
		FilterExpression:          aws.String("#ts >= :since"),
		ExpressionAttributeNames:  map[string]string{"#ts": "timestamp_ms"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":since": sinceValue},
	})

	var samples []entities.StoredSample
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать таблицу %s: %w", r.samplesTable, err)
		}
		var batch []sampleItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("не удалось разобрать измерения: %w", err)
		}
		for _, item := range batch {
			if item.Timestamp.Before(since) {
				continue
			}
			samples = append(samples, item.toSample())
		}
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Timestamp.Before(samples[j].Timestamp) })
	return samples, nil
}

// SavePredictions пишет предсказания пачками по 25 с повтором необработанных элементов.
func (r *Repository) SavePredictions(ctx context.Context, predictions []entities.StressPrediction) (int, error) {
	stored := 0
	for i := 0; i < len(predictions); i += batchSize {
		end := min(i+batchSize, len(predictions))

		requests := make([]types.WriteRequest, 0, end-i)
		for _, prediction := range predictions[i:end] {
			item, err := attributevalue.MarshalMap(prediction)
			if err != nil {
				return stored, fmt.Errorf("не удалось преобразовать предсказание: %w", err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := r.writeBatch(ctx, requests); err != nil {
			return stored, err
		}
		stored += len(requests)
	}
	return stored, nil
}

func (r *Repository) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := requests
	for retry := 0; retry < maxRetries && len(pending) > 0; retry++ {
		if retry > 0 {
			backoff := time.Duration(retry*retry) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.predictionsTable: pending},
		})
		if err != nil {
			r.logger.Warn("ошибка пакетной записи, повтор", zap.Error(err), zap.Int("retry", retry+1))
			continue
		}
		pending = result.UnprocessedItems[r.predictionsTable]
	}

	if len(pending) > 0 {
		return fmt.Errorf("не записано %d предсказаний после %d попыток", len(pending), maxRetries)
	}
	return nil
}

// RecentPredictions сканирует таблицу предсказаний и возвращает последние limit.
func (r *Repository) RecentPredictions(ctx context.Context, limit int) ([]entities.StressPrediction, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.predictionsTable),
	})

	var predictions []entities.StressPrediction
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать таблицу %s: %w", r.predictionsTable, err)
		}
		var batch []entities.StressPrediction
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("не удалось разобрать предсказания: %w", err)
		}
		predictions = append(predictions, batch...)
	}

	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].PredictionTimestamp.After(predictions[j].PredictionTimestamp)
	})
	if limit > 0 && len(predictions) > limit {
		predictions = predictions[:limit]
	}
	return predictions, nil
}
