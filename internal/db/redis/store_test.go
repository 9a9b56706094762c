package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/rosterdex/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- hash.go tests ---

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("HSET", "rosterdex:profile:E1", "name", "Asha"),
			mock.Match("HSET", "rosterdex:profile:E2", "name", "Ravi"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "rosterdex:profile:E1", Fields: map[string]string{"name": "Asha"}},
		{Key: "rosterdex:profile:E2", Fields: map[string]string{"name": "Ravi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f": "v"}},
		{Key: "k2", Fields: map[string]string{"f": "v"}},
	})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := &Store{}
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "k1", "k2")).
		Return(mock.Result(mock.RedisInt64(2)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "k1", "k2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDel_NoKeys(t *testing.T) {
	s := &Store{}
	if err := s.Del(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDel_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "k1")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "k1"); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestScan_FollowsCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SCAN", "0", "MATCH", "rosterdex:profile:*", "COUNT", "100")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("7"),
				mock.RedisArray(mock.RedisString("rosterdex:profile:E1")),
			))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SCAN", "7", "MATCH", "rosterdex:profile:*", "COUNT", "100")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("0"),
				mock.RedisArray(mock.RedisString("rosterdex:profile:E2")),
			))),
	)

	s := NewStoreForTest(c)
	keys, err := s.Scan(context.Background(), "rosterdex:profile:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "rosterdex:profile:E1" || keys[1] != "rosterdex:profile:E2" {
		t.Errorf("keys = %v", keys)
	}
}

func TestScan_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if _, err := s.Scan(context.Background(), "*"); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.RedisString("payload")))

	s := NewStoreForTest(c)
	got, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("got %q", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET" && cmd[1] == "k" && cmd[3] == "EX" && cmd[4] == "60"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "k", []byte("v")); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:        "test:idx",
		StorageType: db.StorageHash,
		Prefixes:    []string{"test:"},
		Fields: []db.IndexField{
			{Name: "employee_id", Type: db.IndexFieldTag},
		},
	}
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDropIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "test:idx")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "test:idx"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "test:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "test:idx")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "test:idx")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("test:idx"))))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "test:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestIndexExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "test:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "test:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestBuildCreateArgs_Validation(t *testing.T) {
	_, err := buildCreateArgs(&db.IndexDefinition{Name: "", Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}}})
	if err == nil {
		t.Error("expected error for empty name")
	}

	_, err = buildCreateArgs(&db.IndexDefinition{Name: "test"})
	if err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestBuildCreateArgs_Layout(t *testing.T) {
	args, err := buildCreateArgs(&db.IndexDefinition{
		Name:        "rosterdex:profiles",
		StorageType: db.StorageHash,
		Prefixes:    []string{"rosterdex:profile:"},
		Fields:      []db.IndexField{{Name: "employee_id", Type: db.IndexFieldTag}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args[0] != "rosterdex:profiles" {
		t.Errorf("first arg = %q", args[0])
	}
	assertContains(t, args, "HASH")
	assertContains(t, args, "PREFIX")
	assertContains(t, args, "rosterdex:profile:")
	assertContains(t, args, "SCHEMA")
}

func TestBuildFieldArgs_AllTypes(t *testing.T) {
	tests := []struct {
		name  string
		field db.IndexField
		want  string
	}{
		{"tag", db.IndexField{Name: "f", Type: db.IndexFieldTag}, "TAG"},
		{"text", db.IndexField{Name: "f", Type: db.IndexFieldText}, "TEXT"},
		{"vector_flat", db.IndexField{
			Name: "f", Type: db.IndexFieldVector,
			VectorDim: 128, VectorAlgo: db.VectorFlat,
		}, "VECTOR"},
		{"vector_hnsw", db.IndexField{
			Name: "f", Type: db.IndexFieldVector,
			VectorDim: 256, VectorAlgo: db.VectorHNSW,
			VectorM: 16, VectorEFConstruct: 200,
		}, "VECTOR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args, err := buildFieldArgs(&tc.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertContains(t, args, tc.want)
		})
	}
}

func TestBuildFieldArgs_HNSWParams(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{
		Name: "vector", Type: db.IndexFieldVector,
		VectorDim: 1024, VectorAlgo: db.VectorHNSW,
		VectorM: 16, VectorEFConstruct: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"HNSW", "DIM", "1024", "COSINE", "M", "16", "EF_CONSTRUCTION", "200"} {
		assertContains(t, args, want)
	}
}

func TestBuildFieldArgs_Errors(t *testing.T) {
	_, err := buildFieldArgs(&db.IndexField{Name: "", Type: db.IndexFieldTag})
	if err == nil {
		t.Error("expected error for empty field name")
	}

	_, err = buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldType(99)})
	if err == nil {
		t.Error("expected error for unknown type")
	}

	_, err = buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldVector, VectorDim: 0})
	if err == nil {
		t.Error("expected error for zero vector dim")
	}
}

func assertContains(t *testing.T, args []string, want string) {
	t.Helper()
	for _, a := range args {
		if a == want {
			return
		}
	}
	t.Errorf("expected %q in args %v", want, args)
}

// --- search.go tests ---

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("doc:1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"),
				mock.RedisString("0.1"), // distance 0.1 → similarity 0.9
				mock.RedisString("__content"),
				mock.RedisString("hello"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.1, 0.2},
		K:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].Key != "doc:1" {
		t.Errorf("expected key doc:1, got %s", result.Entries[0].Key)
	}
	// cosine distance 0.1 maps to similarity 0.9
	if result.Entries[0].Score < 0.89 || result.Entries[0].Score > 0.91 {
		t.Errorf("expected score ~0.9, got %f", result.Entries[0].Score)
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.1},
		K:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.Entries))
	}
}

func TestSearchKNN_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.1},
		K:         10,
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchKNN(ctx, &db.KNNQuery{Vector: []float32{0.1}, K: 10})
	if err == nil {
		t.Error("expected error for empty index name")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", K: 10})
	if err == nil {
		t.Error("expected error for empty vector")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", Vector: []float32{0.1}, K: 0})
	if err == nil {
		t.Error("expected error for k=0")
	}
}

func TestSearchKNN_RawScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*=>[KNN 5 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("rosterdex:profile:E1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"),
				mock.RedisString("0.25"),
				mock.RedisString("employee_id"),
				mock.RedisString("E1"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "rosterdex:profiles",
		Vector:       []float32{0.1, 0.2},
		K:            5,
		ReturnFields: []string{"employee_id"},
		RawScores:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := result.Entries[0]
	if e.Score != 0.25 {
		t.Errorf("expected raw distance 0.25, got %f", e.Score)
	}
	if _, ok := e.Fields["__vector_score"]; ok {
		t.Error("score field must be stripped from fields")
	}
	if e.Fields["employee_id"] != "E1" {
		t.Errorf("fields = %v", e.Fields)
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.0, 2.0}
	b := vectorToBytes(v)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
