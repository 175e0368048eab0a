package vectorstore

import (
	"context"
	"fmt"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantStore implements Store over Qdrant's gRPC API.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	timeout     time.Duration
}

// NewQdrantStore dials Qdrant at the given gRPC address. The timeout bounds
// every individual store call.
func NewQdrantStore(addr string, timeout time.Duration) (*QdrantStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", addr, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		timeout:     timeout,
	}, nil
}

func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

func (s *QdrantStore) CreateCollection(ctx context.Context, name string, vectorSize int) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(vectorSize),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

func (s *QdrantStore) UpsertPoint(ctx context.Context, collection string, p Point) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload := map[string]*pb.Value{
		"text":     {Kind: &pb.Value_StringValue{StringValue: p.Payload.Text}},
		"document": {Kind: &pb.Value_StringValue{StringValue: p.Payload.Document}},
		"chunk":    {Kind: &pb.Value_IntegerValue{IntegerValue: int64(p.Payload.Chunk)}},
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: []*pb.PointStruct{
			{
				Id: &pb.PointId{
					PointIdOptions: &pb.PointId_Num{Num: p.ID},
				},
				Vectors: &pb.Vectors{
					VectorsOptions: &pb.Vectors_Vector{
						Vector: &pb.Vector{Data: p.Vector},
					},
				},
				Payload: payload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert point %d into %s: %w", p.ID, collection, err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	results := make([]ScoredPoint, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		sp := ScoredPoint{Score: r.GetScore()}
		for k, val := range r.GetPayload() {
			switch k {
			case "text":
				sp.Text = val.GetStringValue()
			case "document":
				sp.Document = val.GetStringValue()
			case "chunk":
				sp.Chunk = int(val.GetIntegerValue())
			}
		}
		results[i] = sp
	}
	return results, nil
}

func (s *QdrantStore) DeleteCollection(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: name,
	})
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}
	return nil
}
