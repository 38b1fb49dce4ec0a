package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/boogle-server/internal/model"
)

const defaultAvatar = "default-avatar.png"

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	IsActive  bool       `json:"isActive"`
	Avatar    string     `json:"avatar"`
	Bio       string     `json:"bio"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func newUserResponse(u model.User) userResponse {
	avatar := u.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		Avatar:    avatar,
		Bio:       u.Bio,
		LastLogin: u.LastLoginAt,
		CreatedAt: u.CreatedAt,
	}
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

type registerRequest struct {
	FullName        string     `json:"fullName" validate:"required,min=2,max=100" label:"Full name" msg:"Full name must be between 2 and 100 characters"`
	Email           string     `json:"email" validate:"required,email" label:"Email" msg:"Please provide a valid email"`
	Password        string     `json:"password" validate:"required,min=8,maxbytes=72,strongpassword" label:"Password" msg_min:"Password must be at least 8 characters" msg_maxbytes:"Password cannot exceed 72 bytes" msg_strongpassword:"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"`
	ConfirmPassword string     `json:"confirmPassword" validate:"required,eqfield=Password" label:"Password confirmation" msg:"Passwords do not match"`
	Role            model.Role `json:"role" validate:"omitempty,oneof=student instructor admin" msg:"Invalid role"`
}

func (r *registerRequest) trim() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email" msg:"Please provide a valid email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

func (r *loginRequest) trim() {
	r.Email = strings.TrimSpace(r.Email)
}

type updateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=100" msg:"Full name must be between 2 and 100 characters"`
	Bio      *string `json:"bio" validate:"omitempty,max=500" msg:"Bio cannot exceed 500 characters"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required" label:"Current password"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,maxbytes=72,strongpassword" label:"New password" msg_min:"Password must be at least 8 characters" msg_maxbytes:"Password cannot exceed 72 bytes" msg_strongpassword:"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"`
}

type setStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required" label:"isActive"`
}

type contactRequest struct {
	Name     string                `json:"name" validate:"required,min=2,max=100" label:"Name" msg:"Name must be between 2 and 100 characters"`
	Email    string                `json:"email" validate:"required,email" label:"Email" msg:"Please provide a valid email"`
	Phone    string                `json:"phone" validate:"omitempty,max=30" msg:"Phone number is too long"`
	Subject  string                `json:"subject" validate:"required,min=5,max=200" label:"Subject" msg:"Subject must be between 5 and 200 characters"`
	Message  string                `json:"message" validate:"required,min=10,max=5000" label:"Message" msg:"Message must be between 10 and 5000 characters"`
	Category model.ContactCategory `json:"category" validate:"omitempty,oneof=general technical billing course feedback other" msg:"Invalid category"`
}

func (r *contactRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

type contactResponseRequest struct {
	Message string `json:"message" validate:"required,max=5000" label:"Response message" msg:"Response message cannot exceed 5000 characters"`
}

type updateContactRequest struct {
	Status   model.ContactStatus     `json:"status" validate:"omitempty,oneof=new in-progress resolved spam" msg:"Invalid status"`
	Priority model.ContactPriority   `json:"priority" validate:"omitempty,oneof=low medium high urgent" msg:"Invalid priority"`
	Response *contactResponseRequest `json:"response"`
}

type contactResponseView struct {
	Message     string    `json:"message"`
	RespondedBy uuid.UUID `json:"respondedBy"`
	RespondedAt time.Time `json:"respondedAt"`
}

type contactView struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone,omitempty"`
	Subject     string                `json:"subject"`
	Message     string                `json:"message"`
	Category    model.ContactCategory `json:"category"`
	Status      model.ContactStatus   `json:"status"`
	Priority    model.ContactPriority `json:"priority"`
	Responded   bool                  `json:"responded"`
	Response    *contactResponseView  `json:"response,omitempty"`
	SubmittedBy *uuid.UUID            `json:"submittedBy,omitempty"`
	IPAddress   string                `json:"ipAddress,omitempty"`
	UserAgent   string                `json:"userAgent,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

func newContactView(c model.Contact) contactView {
	v := contactView{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Subject:     c.Subject,
		Message:     c.Message,
		Category:    c.Category,
		Status:      c.Status,
		Priority:    c.Priority,
		Responded:   c.Responded,
		SubmittedBy: c.SubmittedBy,
		IPAddress:   c.IPAddress,
		UserAgent:   c.UserAgent,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Response != nil {
		v.Response = &contactResponseView{
			Message:     c.Response.Message,
			RespondedBy: c.Response.RespondedBy,
			RespondedAt: c.Response.RespondedAt,
		}
	}
	return v
}
