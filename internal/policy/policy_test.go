package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func movieOwnedBy(id string) model.Movie {
	return model.Movie{ID: "m-" + id, Owner: model.Ref[model.UserRef](id)}
}

func TestReadScope_AdminSharedVisibility(t *testing.T) {
	admins := []string{"admin-a", "admin-z"}
	cases := []struct {
		name      string
		requester Requester
		owner     string
		want      bool
	}{
		{"own record", Requester{ID: "x", Role: model.RoleUser}, "x", true},
		{"admin record seen by user", Requester{ID: "y", Role: model.RoleUser}, "admin-a", true},
		{"admin record seen by other admin", Requester{ID: "admin-z", Role: model.RoleAdmin}, "admin-a", true},
		{"other user's record", Requester{ID: "y", Role: model.RoleUser}, "x", false},
		{"admin requester does not see user records", Requester{ID: "admin-z", Role: model.RoleAdmin}, "x", false},
		{"missing owner", Requester{ID: "y"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewReadScope(tc.requester, admins)
			assert.Equal(t, tc.want, CanRead(s, movieOwnedBy(tc.owner), model.Movie.OwnerID))
		})
	}
}

func TestWriteScope_OwnerOnly(t *testing.T) {
	d := model.Director{Person: model.Person{ID: "d1", Owner: model.Ref[model.UserRef]("admin-a")}}

	assert.True(t, CanWrite(NewWriteScope(Requester{ID: "admin-a", Role: model.RoleAdmin}), d, model.Director.OwnerID))
	assert.False(t, CanWrite(NewWriteScope(Requester{ID: "admin-z", Role: model.RoleAdmin}), d, model.Director.OwnerID))
	assert.False(t, CanWrite(NewWriteScope(Requester{ID: "y", Role: model.RoleUser}), d, model.Director.OwnerID))
}

func TestReadScope_OwnersDedupes(t *testing.T) {
	s := NewReadScope(Requester{ID: "admin-a", Role: model.RoleAdmin}, []string{"admin-a", "admin-b", "admin-b"})
	assert.Equal(t, []string{"admin-a", "admin-b"}, s.Owners())

	s = NewReadScope(Requester{ID: "u"}, nil)
	assert.Equal(t, []string{"u"}, s.Owners())
}

func TestFilterReadable_SameRuleForEveryResource(t *testing.T) {
	s := NewReadScope(Requester{ID: "u"}, []string{"admin"})

	actors := []model.Actor{
		{Person: model.Person{ID: "a1", Owner: model.Ref[model.UserRef]("u")}},
		{Person: model.Person{ID: "a2", Owner: model.Ref[model.UserRef]("other")}},
		{Person: model.Person{ID: "a3", Owner: model.Expand(model.UserRef{ID: "admin", Role: model.RoleAdmin})}},
	}
	got := FilterReadable(s, actors, model.Actor.OwnerID)
	assert.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a3", got[1].ID)

	movies := []model.Movie{movieOwnedBy("u"), movieOwnedBy("other"), movieOwnedBy("admin")}
	assert.Len(t, FilterReadable(s, movies, model.Movie.OwnerID), 2)
	assert.Len(t, FilterWritable(NewWriteScope(Requester{ID: "u"}), movies, model.Movie.OwnerID), 1)
}
