package dto

type CreateTeamDTO struct {
	Name string `json:"name" validate:"required,max=150"`
}

type UpdateTeamDTO struct {
	Name string `json:"name" validate:"required,max=150"`
}

type AddTeamMemberDTO struct {
	UserID uint64 `json:"user_id" validate:"required,gt=0"`
}

type TeamDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}

type TeamMemberDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type TeamDetailsDTO struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"created_at"`
	Members   []TeamMemberDTO `json:"members"`
}
