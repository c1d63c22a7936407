package chainq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(f *fakeConn) Session {
	return NewSession(context.Background(), f)
}

func TestInsert_Success(t *testing.T) {
	f := &fakeConn{execN: 1}
	s := newTestSession(f)

	res := s.Insert("INSERT INTO users (id) VALUES ($1)", Args(1))

	require.True(t, res.IsSuccess())
	require.Len(t, f.execs, 1)
	assert.Equal(t, []any{1}, f.execs[0].args)
}

func TestInsert_ConflictUsesCallerMessage(t *testing.T) {
	f := &fakeConn{execErr: WrapError(KindConflict, "duplicate key value", errors.New("23505"))}
	s := newTestSession(f)

	res := s.Insert("INSERT INTO users (email) VALUES ($1)", Args("a@b.c"),
		OnConflict("email is already registered"))

	require.True(t, res.IsFailure())
	require.True(t, IsConflict(res.Err()))

	var e *Error
	require.ErrorAs(t, res.Err(), &e)
	assert.Equal(t, "email is already registered", e.Message)
}

func TestInsert_ConflictDefaultMessage(t *testing.T) {
	f := &fakeConn{execErr: WrapError(KindConflict, "duplicate key value", nil)}
	s := newTestSession(f)

	res := s.Insert("INSERT INTO users (email) VALUES ($1)", Args("a@b.c"))

	var e *Error
	require.ErrorAs(t, res.Err(), &e)
	assert.Equal(t, "record already exists", e.Message)
}

func TestReferenceDefaults_DifferPerVerb(t *testing.T) {
	refErr := WrapError(KindReference, "fk violated", nil)

	f := &fakeConn{execErr: refErr}
	s := newTestSession(f)

	var e *Error
	require.ErrorAs(t, s.Insert("INSERT …", nil).Err(), &e)
	assert.Equal(t, "referenced record does not exist", e.Message)

	require.ErrorAs(t, s.Update("UPDATE …", nil).Err(), &e)
	assert.Equal(t, "referenced record does not exist", e.Message)

	require.ErrorAs(t, s.Delete("DELETE …", nil).Err(), &e)
	assert.Equal(t, "record is in use", e.Message)
}

func TestInsertIf_FalseGateIssuesNoSQL(t *testing.T) {
	f := &fakeConn{}
	s := newTestSession(f)

	res := s.InsertIf(false, "INSERT …", nil)

	assert.True(t, res.IsSuccess())
	assert.Zero(t, f.statements())
}

func TestInsertWhen_PredicateEvaluatedOnce(t *testing.T) {
	f := &fakeConn{execN: 1}
	s := newTestSession(f)

	calls := 0
	res := s.InsertWhen(func() bool { calls++; return true }, "INSERT …", nil)

	assert.True(t, res.IsSuccess())
	assert.Equal(t, 1, calls)
	assert.Len(t, f.execs, 1)
}

func TestUpdateCount_ZeroRowsIsSuccess(t *testing.T) {
	f := &fakeConn{execN: 0}
	s := newTestSession(f)

	res := s.UpdateCount("UPDATE users SET name = $1 WHERE id = $2", Args("x", 99))

	require.True(t, res.IsSuccess())
	assert.Equal(t, int64(0), res.Value())
}

func TestDeleteCount_ReportsAffected(t *testing.T) {
	f := &fakeConn{execN: 3}
	s := newTestSession(f)

	res := s.DeleteCount("DELETE FROM sessions WHERE user_id = $1", Args(7))

	require.True(t, res.IsSuccess())
	assert.Equal(t, int64(3), res.Value())
}

type user struct {
	ID   int
	Name string
}

func scanUser(r Row) (user, error) {
	var u user
	err := r.Scan(&u.ID, &u.Name)
	return u, err
}

func TestInsertGet_ReturnsRow(t *testing.T) {
	f := &fakeConn{rowVals: []any{1, "ada"}}
	s := newTestSession(f)

	res := InsertGet(s, "INSERT INTO users (name) VALUES ($1) RETURNING id, name",
		Args("ada"), "ada", scanUser)

	require.True(t, res.IsSuccess())
	assert.Equal(t, user{ID: 1, Name: "ada"}, res.Value())
}

func TestInsertGet_NoRowFailsNotFoundWithKey(t *testing.T) {
	f := &fakeConn{rowVals: nil}
	s := newTestSession(f)

	res := InsertGet(s, "INSERT … RETURNING id, name", Args("ada"), "ada", scanUser)

	require.True(t, res.IsFailure())
	require.True(t, IsNotFound(res.Err()))

	var e *Error
	require.ErrorAs(t, res.Err(), &e)
	assert.Equal(t, "ada", e.Key)
}

func TestUpdateGet_ConflictStillClassified(t *testing.T) {
	f := &fakeConn{rowErr: WrapError(KindConflict, "duplicate key value", nil)}
	s := newTestSession(f)

	res := UpdateGet(s, "UPDATE … RETURNING id, name", nil, 5, scanUser,
		OnConflict("name already taken"))

	require.True(t, IsConflict(res.Err()))
	var e *Error
	require.ErrorAs(t, res.Err(), &e)
	assert.Equal(t, "name already taken", e.Message)
}
