// Package storagetests provides common acceptance tests for storage.Store
// implementations.
package storagetests

import (
	"testing"

	"github.com/dpup/oauthconnect/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Tier int

const (
	TierFree    Tier = 1
	TierBasic   Tier = 2
	TierPlus    Tier = 3
	TierPro     Tier = 4
	TierPremium Tier = 5
)

type Account struct {
	ID     string
	Email  string
	Tier   Tier
	Logins *int // Ptr fields allow filtering on zero values.
}

func (a Account) PK() string {
	return a.ID
}

type Site struct {
	ID   string
	Name string
}

func (s Site) PK() string {
	return s.ID
}

type BadModel struct {
	ID    string
	Cycle *BadModel
}

func (b BadModel) PK() string {
	return b.ID
}

func pint(i int) *int {
	return &i
}

func Run(t *testing.T, newStore func() storage.Store) {

	t.Run("TestCreateReadRoundTrip", func(t *testing.T) {
		alice := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierBasic,
		}
		bob := Account{
			ID:    "2",
			Email: "bob@example.com",
			Tier:  TierPro,
		}

		alice2 := Account{}
		bob2 := Account{}

		store := newStore()
		err := store.Create(alice, bob)
		require.Nil(t, err, "unexpected error putting records")

		err = store.Read("1", &alice2)
		require.Nil(t, err, "unexpected error getting alice")
		assert.Equal(t, alice, alice2)

		err = store.Read("2", &bob2)
		require.Nil(t, err, "unexpected error getting bob")
		assert.Equal(t, bob, bob2)
	})

	t.Run("TestCreateConflict", func(t *testing.T) {
		alice := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierBasic,
		}
		dupe := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierFree,
		}

		store := newStore()
		err := store.Create(alice)
		require.Nil(t, err, "unexpected error putting records")

		err = store.Create(dupe)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists, "expected conflict error")
	})

	t.Run("TestCreateBadModel", func(t *testing.T) {
		bm := BadModel{ID: "XXX"}
		bm.Cycle = &bm

		store := newStore()
		err := store.Create(bm)
		assert.ErrorIs(t, err, storage.ErrInvalidModel, "expected invalid model error")
	})

	t.Run("TestReadNotFound", func(t *testing.T) {
		store := newStore()
		err := store.Read("1", &Account{})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.Create(&Account{ID: "1", Email: "alice@example.com"})
		require.Nil(t, err, "unexpected error creating records")

		err = store.Read("2", &Account{})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("TestReadWithNilPointer", func(t *testing.T) {
		alice := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierBasic,
		}

		var nothing *Account

		store := newStore()
		err := store.Create(alice)
		require.Nil(t, err, "unexpected error putting records")

		err = store.Read("1", nothing)
		assert.ErrorIs(t, err, storage.ErrNilModel, "expected nil model error")
	})

	t.Run("TestUpdate", func(t *testing.T) {
		alice := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierBasic,
		}

		alice2 := Account{}

		store := newStore()
		err := store.Create(alice)
		require.Nil(t, err, "unexpected error putting records")

		err = store.Read("1", &alice2)
		require.Nil(t, err, "unexpected error getting alice")
		assert.Equal(t, alice, alice2)

		alice.Tier = TierPremium
		err = store.Update(alice)
		require.Nil(t, err, "unexpected error updating alice")

		err = store.Read("1", &alice2)
		require.Nil(t, err, "unexpected error getting alice")
		assert.Equal(t, alice, alice2)
	})

	t.Run("TestUpdateNotExists", func(t *testing.T) {
		alice := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierBasic,
		}

		store := newStore()
		err := store.Update(alice)
		assert.ErrorIs(t, err, storage.ErrNotFound, "expected not found error")
	})

	t.Run("TestUpdateBadModel", func(t *testing.T) {
		bm := BadModel{ID: "XXX"}
		bm.Cycle = &bm

		store := newStore()
		err := store.Update(bm)
		assert.ErrorIs(t, err, storage.ErrInvalidModel, "expected invalid model error")
	})

	t.Run("TestUpsert", func(t *testing.T) {
		alice := Account{
			ID:    "1",
			Email: "alice@example.com",
			Tier:  TierBasic,
		}

		alice2 := Account{}
		bob2 := Account{}

		store := newStore()
		err := store.Create(alice)
		require.Nil(t, err, "unexpected error putting records")

		alice.Tier = TierPremium
		bob := Account{ID: "2", Email: "bob@example.com", Tier: TierPro}
		err = store.Upsert(alice, bob)
		require.Nil(t, err, "unexpected error upserting records")

		err = store.Read("1", &alice2)
		require.Nil(t, err, "unexpected error getting alice")
		assert.Equal(t, alice, alice2)

		err = store.Read("2", &bob2)
		require.Nil(t, err, "unexpected error getting bob")
		assert.Equal(t, bob, bob2)
	})

	t.Run("TestUpsertBadModel", func(t *testing.T) {
		bm := BadModel{ID: "XXX"}
		bm.Cycle = &bm

		store := newStore()
		err := store.Upsert(bm)
		assert.ErrorIs(t, err, storage.ErrInvalidModel, "expected invalid model error")
	})

	t.Run("TestDelete", func(t *testing.T) {
		store := newStore()
		err := store.Create(&Account{ID: "4", Email: "dana@example.com"})
		assert.Nil(t, err)

		exists, err := store.Exists("4", &Account{})
		assert.True(t, exists)
		assert.Nil(t, err)

		err = store.Delete(&Account{ID: "4"})
		assert.Nil(t, err)

		exists, err = store.Exists("4", &Account{})
		assert.False(t, exists)
		assert.Nil(t, err)

		err = store.Delete(&Account{ID: "4"})
		assert.ErrorIs(t, err, storage.ErrNotFound, "expected not found error")
	})

	t.Run("TestListErrorCases", func(t *testing.T) {
		store := newStore()

		out := []Account{}

		tests := []struct {
			name    string
			models  any
			filter  storage.Model
			wantErr error
		}{
			{"Ok", &out, Account{}, nil},
			{"Not a slice", Account{}, Account{}, storage.ErrSliceRequired},
			{"Not a pointer", out, Account{}, storage.ErrSliceRequired},
			{"Mismatched type", &out, Site{}, storage.ErrTypeMismatch},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := store.List(tt.models, tt.filter); err != tt.wantErr {
					t.Errorf("store.List() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("TestList", func(t *testing.T) {
		store := newStore()
		err := store.Create(
			Account{"1", "alice@example.com", TierBasic, nil},
			Account{"2", "bob@example.com", TierPro, nil},
			Account{"3", "carol@example.com", TierPlus, nil},
		)
		assert.Nil(t, err)

		actual := []Account{}
		err = store.List(&actual, Account{})
		assert.Nil(t, err)

		expected := []Account{
			{"1", "alice@example.com", TierBasic, nil},
			{"2", "bob@example.com", TierPro, nil},
			{"3", "carol@example.com", TierPlus, nil},
		}

		assert.Equal(t, expected, actual)
	})

	t.Run("TestListFilter", func(t *testing.T) {
		store := newStore()
		err := store.Create(
			Account{"1", "alice@example.com", TierBasic, nil},
			Account{"2", "bob@example.com", TierPro, nil},
			Account{"3", "carol@example.com", TierPlus, nil},
			Account{"4", "dana@example.com", TierBasic, nil},
			Account{"5", "erin@example.com", TierPremium, nil},
		)
		assert.Nil(t, err)

		actual := []Account{}
		err = store.List(&actual, Account{Tier: TierBasic})
		assert.Nil(t, err)

		expected := []Account{
			{"1", "alice@example.com", TierBasic, nil},
			{"4", "dana@example.com", TierBasic, nil},
		}

		assert.Equal(t, expected, actual)
	})

	t.Run("TestListFilterZero", func(t *testing.T) {
		store := newStore()
		err := store.Create(
			Account{"1", "alice@example.com", TierBasic, pint(4)},
			Account{"2", "bob@example.com", TierPro, pint(3)},
			Account{"3", "carol@example.com", TierPlus, pint(0)},
			Account{"4", "dana@example.com", TierBasic, pint(0)},
			Account{"5", "erin@example.com", TierPremium, nil},
		)
		assert.Nil(t, err)

		actual := []Account{}
		err = store.List(&actual, Account{Logins: pint(0)})
		assert.Nil(t, err)

		expected := []Account{
			{"3", "carol@example.com", TierPlus, pint(0)},
			{"4", "dana@example.com", TierBasic, pint(0)},
		}

		assert.Equal(t, expected, actual)
	})

	t.Run("TestExists", func(t *testing.T) {
		store := newStore()
		exists, err := store.Exists("3", &Account{})
		assert.False(t, exists)
		assert.Nil(t, err)

		err = store.Create(&Account{ID: "3", Email: "carol@example.com"})
		assert.Nil(t, err)

		exists, err = store.Exists("3", &Account{})
		assert.True(t, exists)
		assert.Nil(t, err)
	})
}
