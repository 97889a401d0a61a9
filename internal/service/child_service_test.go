package service

import (
	"errors"
	"testing"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/util"
)

func TestAuthorizeChildOwnership(t *testing.T) {
	e := newTestEnv(t)
	child := e.mustCreateChild(t, 7, "Alice")

	owner := &util.Claims{UserID: 7, Role: model.Guardian}
	got, err := e.childSv.Authorize(owner, child.ID)
	if err != nil {
		t.Fatalf("owner should be authorized: %v", err)
	}
	if got.ID != child.ID {
		t.Errorf("child id = %d, want %d", got.ID, child.ID)
	}

	stranger := &util.Claims{UserID: 8, Role: model.Guardian}
	if _, err := e.childSv.Authorize(stranger, child.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("stranger: got %v, want ErrPermissionDenied", err)
	}

	// 导师与管理员不受监护人归属限制
	tutor := &util.Claims{UserID: 9, Role: model.Tutor}
	if _, err := e.childSv.Authorize(tutor, child.ID); err != nil {
		t.Errorf("tutor: %v", err)
	}
	admin := &util.Claims{UserID: 10, Role: model.Admin}
	if _, err := e.childSv.Authorize(admin, child.ID); err != nil {
		t.Errorf("admin: %v", err)
	}

	if _, err := e.childSv.Authorize(owner, 9999); !errors.Is(err, util.ErrChildNotFound) {
		t.Errorf("missing child: got %v, want ErrChildNotFound", err)
	}
}
