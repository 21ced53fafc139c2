package rbac

// Default policy. Members own their projects and forum activity; admins get
// everything, including the contact-message tooling.
var RolePermissions = map[string][]string{
	"member": {
		"project:create",
		"project:view-own",
		"project:edit-own",
		"project:delete-own",
		"project:export",
		"project:import",
		"badge:view-own",
		"post:create",
		"post:view",
		"post:edit-own",
		"post:delete-own",
		"comment:create",
		"comment:delete-own",
		"like:toggle",
		"notification:view-own",
		"contact:send",
		"user:edit-own",
	},
	"admin": {
		"*", // everything
	},
}
