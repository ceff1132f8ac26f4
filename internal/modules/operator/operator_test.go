package operator

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskContact(t *testing.T) {
	cases := map[string]string{
		"ops@skybridge.example": "o**@skybridge.example",
		"+44 20 7946 0123":      "+** ** **** 0123",
		"":                      "",
		"a@b.example":           "a@b.example",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskContact(in), in)
	}
}

func TestServiceProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(Profile{
		ID: "op1", Name: "SkyBridge", HomeBases: []string{"EGLL"}, Contact: "ops@skybridge.example",
	}))

	p, err := svc.Profile(ctx, "op1")
	require.NoError(t, err)
	assert.Equal(t, "SkyBridge", p.Name)
	assert.Equal(t, "o**@skybridge.example", p.Contact)

	_, err = svc.Profile(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(Profile{ID: "op1", HomeBases: []string{"EGLL"}})
	p, err := s.Get(ctx, "op1")
	require.NoError(t, err)
	p.HomeBases[0] = "XXXX"

	again, err := s.Get(ctx, "op1")
	require.NoError(t, err)
	assert.Equal(t, "EGLL", again.HomeBases[0])
}

func TestListSortedAndMasked(t *testing.T) {
	svc := NewService(NewMemoryStore(
		Profile{ID: "op2", Contact: "b@x.example"},
		Profile{ID: "op1", Contact: "ab@x.example"},
	))
	ps, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "op1", string(ps[0].ID))
	assert.Equal(t, "a*@x.example", ps[0].Contact)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CHARTER_TEST_DSN")
	if dsn == "" {
		t.Skip("CHARTER_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	s := NewPostgresStore(pool)
	want := Profile{ID: "op_test", Name: "Test Air", HomeBases: []string{"EGLF", "EGKB"}, TypicalTurnMinutes: 45, Contact: "ops@test.example"}
	require.NoError(t, s.Upsert(ctx, want))
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM operators WHERE id = 'op_test'`) })

	got, err := s.Get(ctx, "op_test")
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = s.Get(ctx, "op_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
