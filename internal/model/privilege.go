package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView      = "user:view"
	PrivUserCreate    = "user:create"
	PrivUserUpdate    = "user:update"
	PrivUserDelete    = "user:delete"
	PrivUserPrivilege = "user:update_privilege"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivSubProductView   = "subproduct:view"
	PrivSubProductCreate = "subproduct:create"
	PrivSubProductUpdate = "subproduct:update"
	PrivSubProductDelete = "subproduct:delete"

	PrivVehicleView   = "vehicle:view"
	PrivVehicleCreate = "vehicle:create"
	PrivVehicleUpdate = "vehicle:update"
	PrivVehicleDelete = "vehicle:delete"

	PrivMovementView   = "movement:view"
	PrivMovementCreate = "movement:create"

	PrivOrderView   = "order:view"
	PrivOrderCreate = "order:create"
	PrivOrderUpdate = "order:update"
	PrivOrderDelete = "order:delete"

	PrivDashboardView = "dashboard:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivUserPrivilege, Name: "Update User Privileges"},
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivSubProductView, Name: "View Subproduct"},
	{Code: PrivSubProductCreate, Name: "Create Subproduct"},
	{Code: PrivSubProductUpdate, Name: "Update Subproduct"},
	{Code: PrivSubProductDelete, Name: "Delete Subproduct"},
	{Code: PrivVehicleView, Name: "View Vehicle"},
	{Code: PrivVehicleCreate, Name: "Create Vehicle"},
	{Code: PrivVehicleUpdate, Name: "Update Vehicle"},
	{Code: PrivVehicleDelete, Name: "Delete Vehicle"},
	{Code: PrivMovementView, Name: "View Stock Movement"},
	{Code: PrivMovementCreate, Name: "Register Stock Movement"},
	{Code: PrivOrderView, Name: "View Order"},
	{Code: PrivOrderCreate, Name: "Create Order"},
	{Code: PrivOrderUpdate, Name: "Update Order"},
	{Code: PrivOrderDelete, Name: "Delete Order"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
