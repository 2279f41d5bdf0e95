// Package qdrant векторный бэкенд поверх Qdrant gRPC с метрикой Euclid
package qdrant

import (
	"context"
	"fmt"
	"log"

	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/vectorstore"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const (
	fieldRecordID  = "record_id"
	fieldOwnerID   = "owner_id"
	fieldText      = "text"
	fieldMetadata  = "metadata"
	fieldRole      = "role"
	fieldTimestamp = "timestamp"
)

type Index struct {
	conn        *grpc.ClientConn
	collections pb.CollectionsClient
	points      pb.PointsClient
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex подключается к Qdrant по gRPC
func NewIndex(host string, port int) (*Index, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Connecting to Qdrant: %s", addr)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("did not connect to qdrant: %w", err)
	}
	return &Index{
		conn:        conn,
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
	}, nil
}

func (q *Index) Close() error {
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *Index) HasCollection(ctx context.Context, name string) (bool, error) {
	resp, err := q.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: name})
	if err != nil {
		return false, fmt.Errorf("qdrant collection exists: %w", err)
	}
	return resp.GetResult().GetExists(), nil
}

// CreateCollection создает коллекцию и индексы полезной нагрузки для фильтра и сортировки
func (q *Index) CreateCollection(ctx context.Context, schema vectorstore.Schema) error {
	log.Printf("Creating Qdrant collection '%s' with dim %d", schema.Name, schema.Dimension)

	_, err := q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: schema.Name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(schema.Dimension),
					Distance: pb.Distance_Euclid,
				},
			},
		},
	})
	if err != nil && !alreadyExists(err) {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	wait := true
	indexes := []struct {
		field string
		typ   pb.FieldType
	}{
		{fieldOwnerID, pb.FieldType_FieldTypeKeyword},
		{fieldTimestamp, pb.FieldType_FieldTypeInteger},
	}
	for _, ix := range indexes {
		typ := ix.typ
		_, err := q.points.CreateFieldIndex(ctx, &pb.CreateFieldIndexCollection{
			CollectionName: schema.Name,
			FieldName:      ix.field,
			FieldType:      &typ,
			Wait:           &wait,
		})
		if err != nil && !alreadyExists(err) {
			return fmt.Errorf("failed to index %s: %w", ix.field, err)
		}
	}
	return nil
}

// alreadyExists: коллекцию или индекс успел создать другой процесс
func alreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

func (q *Index) Upsert(ctx context.Context, collection string, records []models.VectorRecord) error {
	points := make([]*pb.PointStruct, 0, len(records))
	for _, r := range records {
		points = append(points, &pb.PointStruct{
			Id: pointID(r.ID),
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Vector},
				},
			},
			Payload: toPayload(r),
		})
	}

	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (q *Index) Delete(ctx context.Context, collection string, ids []string) error {
	pointIDs := make([]*pb.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, pointID(id))
	}

	wait := true
	_, err := q.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

// Search для Euclid Qdrant возвращает дистанцию в Score, ближние первыми
func (q *Index) Search(ctx context.Context, collection, ownerID string, vector []float32, limit int) ([]models.MemoryHit, error) {
	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(limit),
		Filter:         ownerFilter(ownerID),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	hits := make([]models.MemoryHit, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		hit := fromPayload(p.GetPayload())
		if hit.ID == "" {
			hit.ID = p.GetId().GetUuid()
		}
		hit.Distance = p.GetScore()
		hits = append(hits, hit)
	}
	return hits, nil
}

func (q *Index) Query(ctx context.Context, collection, ownerID string, limit int) ([]models.MemoryHit, error) {
	n := uint32(limit)
	resp, err := q.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: collection,
		Filter:         ownerFilter(ownerID),
		Limit:          &n,
		OrderBy: &pb.OrderBy{
			Key:       fieldTimestamp,
			Direction: pb.Direction_Desc.Enum(),
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll failed: %w", err)
	}

	hits := make([]models.MemoryHit, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		hit := fromPayload(p.GetPayload())
		if hit.ID == "" {
			hit.ID = p.GetId().GetUuid()
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// pointID Qdrant принимает только UUID или целые, остальные ID переводятся в детерминированный UUID
func pointID(id string) *pb.PointId {
	u, err := uuid.Parse(id)
	if err != nil {
		u = uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	}
	return &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: u.String()}}
}

func ownerFilter(ownerID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: fieldOwnerID,
					Match: &pb.Match{
						MatchValue: &pb.Match_Keyword{Keyword: ownerID},
					},
				},
			},
		}},
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func toPayload(r models.VectorRecord) map[string]*pb.Value {
	return map[string]*pb.Value{
		fieldRecordID:  stringValue(r.ID),
		fieldOwnerID:   stringValue(r.OwnerID),
		fieldText:      stringValue(r.Text),
		fieldMetadata:  stringValue(r.Metadata),
		fieldRole:      stringValue(string(r.Role)),
		fieldTimestamp: {Kind: &pb.Value_IntegerValue{IntegerValue: r.Timestamp}},
	}
}

func fromPayload(p map[string]*pb.Value) models.MemoryHit {
	return models.MemoryHit{
		ID:        p[fieldRecordID].GetStringValue(),
		OwnerID:   p[fieldOwnerID].GetStringValue(),
		Text:      p[fieldText].GetStringValue(),
		Metadata:  p[fieldMetadata].GetStringValue(),
		Role:      models.ChatRole(p[fieldRole].GetStringValue()),
		Timestamp: p[fieldTimestamp].GetIntegerValue(),
	}
}
