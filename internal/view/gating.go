package view

import (
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// ShowsEditControls is the UI rule for showing edit and delete buttons:
// the viewer owns the record, or the viewer is an admin and so is the
// record's owner.  The second case is wider than what the server allows
// (writes are owner-only), so an admin can see buttons on another admin's
// record that then fail with not found.  When the owner was not expanded
// its role is unknown and an admin viewer is shown the controls.
func ShowsEditControls(viewer policy.Requester, owner model.Reference[model.UserRef]) bool {
	if viewer.ID != "" && owner.ID() == viewer.ID {
		return true
	}
	ref, ok := owner.Expanded()
	return viewer.IsAdmin() && (!ok || ref.Role == model.RoleAdmin)
}
