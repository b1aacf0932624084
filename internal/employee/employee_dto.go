package employee

type CreateEmployeeRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Role       string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	ManagerID  *string `json:"manager_id"`
	HireDate   string  `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Role       string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	ManagerID  *string `json:"manager_id"`
	IsActive   *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id,omitempty"`
	HireDate   string  `json:"hire_date"`
	IsActive   bool    `json:"is_active"`
}
