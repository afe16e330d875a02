package people

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"salesenq/internal"
)

type memStore struct {
	persons []internal.Person
	creates int
	failOn  string
}

func (m *memStore) FindPersonByName(_ context.Context, name string) (*internal.Person, error) {
	for i := range m.persons {
		if m.persons[i].Name == name {
			p := m.persons[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindPersonByEmail(_ context.Context, email string) (*internal.Person, error) {
	for i := range m.persons {
		if m.persons[i].Email == email {
			p := m.persons[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreatePerson(_ context.Context, p internal.Person) (internal.Person, error) {
	if m.failOn != "" && p.Name == m.failOn {
		return internal.Person{}, errors.New("store unavailable")
	}
	m.creates++
	p.ID = int64(len(m.persons) + 1)
	m.persons = append(m.persons, p)
	return p, nil
}

func newTestResolver(store Store) *Resolver {
	return NewResolver(store, Options{EmailDomain: "example.com", DefaultPassword: "password123", HashCost: bcrypt.MinCost}, nil)
}

func TestFindOrCreateBlankName(t *testing.T) {
	store := &memStore{}
	r := newTestResolver(store)
	for _, name := range []string{"", "   ", "\t"} {
		p, err := r.FindOrCreate(context.Background(), name, internal.RoleSales)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Zero(t, store.creates)
}

func TestFindOrCreateReturnsExisting(t *testing.T) {
	store := &memStore{persons: []internal.Person{{ID: 7, Name: "Priya Shah", Email: "priya.shah@example.com", Role: internal.RoleSales}}}
	r := newTestResolver(store)

	p, err := r.FindOrCreate(context.Background(), " Priya Shah ", internal.RoleSales)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(7), p.ID)
	assert.Zero(t, store.creates)
}

func TestFindOrCreateCreatesOnce(t *testing.T) {
	store := &memStore{}
	r := newTestResolver(store)
	ctx := context.Background()

	first, err := r.FindOrCreate(ctx, "Ravi  Kumar", internal.RoleRnD)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "ravi.kumar@example.com", first.Email)
	assert.Equal(t, internal.RoleRnD, first.Role)
	assert.Equal(t, "Research & Development", first.Department)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(first.PasswordHash), []byte("password123")))

	second, err := r.FindOrCreate(ctx, "Ravi  Kumar", internal.RoleRnD)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates)
}

func TestFindOrCreateReusesAccountWithSameEmail(t *testing.T) {
	store := &memStore{}
	r := newTestResolver(store)
	ctx := context.Background()

	first, err := r.FindOrCreate(ctx, "Anil Rao", internal.RoleSales)
	require.NoError(t, err)
	second, err := r.FindOrCreate(ctx, "anil rao", internal.RoleSales)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates)
}

func TestFindOrCreatePropagatesStoreErrors(t *testing.T) {
	store := &memStore{failOn: "Broken Name"}
	r := newTestResolver(store)

	_, err := r.FindOrCreate(context.Background(), "Broken Name", internal.RoleSales)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "store unavailable"))
}

func TestDepartmentFor(t *testing.T) {
	assert.Equal(t, "Sales", DepartmentFor(internal.RoleSales))
	assert.Equal(t, "Research & Development", DepartmentFor(internal.RoleRnD))
	assert.Equal(t, "Administration", DepartmentFor(internal.RoleAdmin))
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(&memStore{}, Options{}, nil)
	assert.Equal(t, "jane.doe@example.com", r.EmailFor("Jane Doe"))
	assert.Equal(t, bcrypt.DefaultCost, r.opts.HashCost)
}
