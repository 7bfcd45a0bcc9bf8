package authz

// Destination permissions.
const (
	PermDestinationCreate      Permission = "destination.create"
	PermDestinationView        Permission = "destination.view"
	PermDestinationList        Permission = "destination.list"
	PermDestinationSearch      Permission = "destination.search"
	PermDestinationCount       Permission = "destination.count"
	PermDestinationUpdate      Permission = "destination.update"
	PermDestinationDelete      Permission = "destination.delete"
	PermDestinationRestore     Permission = "destination.restore"
	PermDestinationHardDelete  Permission = "destination.hard_delete"
	PermDestinationViewDeleted Permission = "destination.view_deleted"
)

// Attraction permissions.
const (
	PermAttractionCreate      Permission = "attraction.create"
	PermAttractionView        Permission = "attraction.view"
	PermAttractionList        Permission = "attraction.list"
	PermAttractionSearch      Permission = "attraction.search"
	PermAttractionCount       Permission = "attraction.count"
	PermAttractionUpdate      Permission = "attraction.update"
	PermAttractionDelete      Permission = "attraction.delete"
	PermAttractionRestore     Permission = "attraction.restore"
	PermAttractionHardDelete  Permission = "attraction.hard_delete"
	PermAttractionViewDeleted Permission = "attraction.view_deleted"
)

// Accommodation permissions.
const (
	PermAccommodationCreate           Permission = "accommodation.create"
	PermAccommodationView             Permission = "accommodation.view"
	PermAccommodationList             Permission = "accommodation.list"
	PermAccommodationSearch           Permission = "accommodation.search"
	PermAccommodationCount            Permission = "accommodation.count"
	PermAccommodationUpdate           Permission = "accommodation.update"
	PermAccommodationUpdateOwn        Permission = "accommodation.update.own"
	PermAccommodationDelete           Permission = "accommodation.delete"
	PermAccommodationDeleteOwn        Permission = "accommodation.delete.own"
	PermAccommodationRestore          Permission = "accommodation.restore"
	PermAccommodationHardDelete       Permission = "accommodation.hard_delete"
	PermAccommodationViewDeleted      Permission = "accommodation.view_deleted"
	PermAccommodationVisibilityUpdate Permission = "accommodation.visibility.update"
	PermAccommodationStatusManage     Permission = "accommodation.status.manage"
)

// Post permissions.
const (
	PermPostCreate      Permission = "post.create"
	PermPostView        Permission = "post.view"
	PermPostList        Permission = "post.list"
	PermPostSearch      Permission = "post.search"
	PermPostCount       Permission = "post.count"
	PermPostUpdate      Permission = "post.update"
	PermPostUpdateOwn   Permission = "post.update.own"
	PermPostDelete      Permission = "post.delete"
	PermPostRestore     Permission = "post.restore"
	PermPostHardDelete  Permission = "post.hard_delete"
	PermPostViewDeleted Permission = "post.view_deleted"
)

// ListingScopes lists every listing permission.
func ListingScopes() []Permission {
	return []Permission{
		PermDestinationCreate, PermDestinationView, PermDestinationList, PermDestinationSearch,
		PermDestinationCount, PermDestinationUpdate, PermDestinationDelete, PermDestinationRestore,
		PermDestinationHardDelete, PermDestinationViewDeleted,
		PermAttractionCreate, PermAttractionView, PermAttractionList, PermAttractionSearch,
		PermAttractionCount, PermAttractionUpdate, PermAttractionDelete, PermAttractionRestore,
		PermAttractionHardDelete, PermAttractionViewDeleted,
		PermAccommodationCreate, PermAccommodationView, PermAccommodationList, PermAccommodationSearch,
		PermAccommodationCount, PermAccommodationUpdate, PermAccommodationUpdateOwn,
		PermAccommodationDelete, PermAccommodationDeleteOwn, PermAccommodationRestore,
		PermAccommodationHardDelete, PermAccommodationViewDeleted,
		PermAccommodationVisibilityUpdate, PermAccommodationStatusManage,
	}
}

// ContentScopes lists every content permission.
func ContentScopes() []Permission {
	return []Permission{
		PermPostCreate, PermPostView, PermPostList, PermPostSearch, PermPostCount,
		PermPostUpdate, PermPostUpdateOwn, PermPostDelete, PermPostRestore,
		PermPostHardDelete, PermPostViewDeleted,
	}
}
