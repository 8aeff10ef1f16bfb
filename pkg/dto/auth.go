package dto

type LoginRequest struct {
	IdentityKey          string `json:"identity_key"`
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Photo                string `json:"photo,omitempty"`
	HasStoragePermission bool   `json:"has_storage_permission"`
}

type LoginResponse struct {
	IsAdmin              bool   `json:"is_admin"`
	Role                 string `json:"role"`
	HasStoragePermission bool   `json:"has_storage_permission"`
	AccessToken          string `json:"access_token"`
	ExpiresIn            int64  `json:"expires_in"`
}

type GrantPermissionRequest struct {
	IdentityKey string `json:"identity_key"`
}

type GrantPermissionResponse struct {
	Success              bool   `json:"success"`
	Role                 string `json:"role"`
	HasStoragePermission bool   `json:"has_storage_permission"`
}
