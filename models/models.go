package models

// All lists every persisted type for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Article{},
		&Comment{},
		&PodcastEpisode{},
		&ForumCategory{},
		&ForumDiscussion{},
		&ForumReply{},
		&Resource{},
		&ToolboxApp{},
		&User{},
		&UserInvitation{},
		&Subscriber{},
		&Like{},
		&SeedMarker{},
	}
}
