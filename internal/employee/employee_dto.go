package employee

// IncludedEmployee is the decrypted summary side-loaded next to leave requests.
type IncludedEmployee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Role    string `json:"role"`
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Surname          string  `json:"surname"`
	Role             string  `json:"role"`
	VacationDaysLeft int     `json:"vacationDaysLeft"`
	SupervisorID     *string `json:"supervisorId,omitempty"`
	HRID             *string `json:"hrId,omitempty"`
}
