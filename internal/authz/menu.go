package authz

// MenuItem is an admin navigation entry guarded by a requirement.
type MenuItem struct {
	Key         string      `json:"key"`
	Path        string      `json:"path"`
	Requirement Requirement `json:"requirement"`
}

// FilterMenu returns the items actor may see, preserving order.
func FilterMenu(actor *Actor, items []MenuItem) []MenuItem {
	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Requirement.Satisfied(actor) {
			visible = append(visible, item)
		}
	}
	return visible
}

// AdminMenu is the admin dashboard navigation.
func AdminMenu() []MenuItem {
	return []MenuItem{
		{Key: "destinations", Path: "/admin/destinations", Requirement: Any(PermDestinationList, PermDestinationSearch)},
		{Key: "attractions", Path: "/admin/attractions", Requirement: Any(PermAttractionList, PermAttractionSearch)},
		{Key: "accommodations", Path: "/admin/accommodations", Requirement: Any(PermAccommodationList, PermAccommodationSearch)},
		{Key: "accommodations.moderation", Path: "/admin/accommodations/moderation", Requirement: All(PermAccommodationList, PermAccommodationStatusManage)},
		{Key: "posts", Path: "/admin/posts", Requirement: Any(PermPostList, PermPostSearch)},
		{Key: "trash", Path: "/admin/trash", Requirement: Any(
			PermDestinationViewDeleted, PermAttractionViewDeleted, PermAccommodationViewDeleted, PermPostViewDeleted,
		)},
	}
}
