package referral

import (
	"context"
	"errors"
	"testing"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
	"github.com/daxzwashe/ref-bot/internal/repo/postgres"
)

type fakeUsersRepo struct {
	existing map[int64]model.User
	inserted []model.User
}

func (f *fakeUsersRepo) CreateIfAbsent(_ context.Context, user model.User) (bool, error) {
	if _, ok := f.existing[user.TgID]; ok {
		return false, nil
	}
	f.inserted = append(f.inserted, user)
	return true, nil
}

type fakePartnersRepo struct {
	byCode map[string]model.Partner
	linked map[string]int64
}

func (f *fakePartnersRepo) GetByCode(_ context.Context, code string) (model.Partner, error) {
	partner, ok := f.byCode[code]
	if !ok {
		return model.Partner{}, postgres.ErrPartnerNotFound
	}
	return partner, nil
}

func (f *fakePartnersRepo) LinkUserID(_ context.Context, username string, tgID int64) error {
	if f.linked == nil {
		f.linked = map[string]int64{}
	}
	f.linked[username] = tgID
	return nil
}

func TestParseStartPayload(t *testing.T) {
	cases := []struct {
		payload string
		code    string
		ok      bool
	}{
		{"ref_AB12CD34", "AB12CD34", true},
		{"  ref_X  ", "X", true},
		{"ref_", "", false},
		{"promo_AB12", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		code, ok := ParseStartPayload(tc.payload)
		if code != tc.code || ok != tc.ok {
			t.Errorf("ParseStartPayload(%q) = (%q, %v), want (%q, %v)", tc.payload, code, ok, tc.code, tc.ok)
		}
	}
}

func TestRegisterAttributesKnownCode(t *testing.T) {
	users := &fakeUsersRepo{}
	partners := &fakePartnersRepo{byCode: map[string]model.Partner{
		"AB12CD34": {Code: "AB12CD34", Username: "partner"},
	}}
	svc := NewService(users, partners)

	result, err := svc.Register(context.Background(), model.User{TgID: 100, Username: "buyer"}, "ref_AB12CD34")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.Created || !result.Attributed || result.UnknownCode != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(users.inserted) != 1 || users.inserted[0].RefPartnerCode != "AB12CD34" {
		t.Fatalf("expected attributed insert, got %+v", users.inserted)
	}
}

func TestRegisterUnknownCodeStillRegisters(t *testing.T) {
	users := &fakeUsersRepo{}
	partners := &fakePartnersRepo{}
	svc := NewService(users, partners)

	result, err := svc.Register(context.Background(), model.User{TgID: 100}, "ref_NOPE")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.UnknownCode != "NOPE" || result.Attributed {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(users.inserted) != 1 || users.inserted[0].RefPartnerCode != "" {
		t.Fatalf("expected unattributed insert, got %+v", users.inserted)
	}
}

func TestRegisterFirstTouchWins(t *testing.T) {
	users := &fakeUsersRepo{existing: map[int64]model.User{
		100: {TgID: 100, RefPartnerCode: "FIRST111"},
	}}
	partners := &fakePartnersRepo{byCode: map[string]model.Partner{
		"SECOND22": {Code: "SECOND22", Username: "other"},
	}}
	svc := NewService(users, partners)

	result, err := svc.Register(context.Background(), model.User{TgID: 100}, "ref_SECOND22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Created || result.Attributed {
		t.Fatalf("existing user must not be re-attributed: %+v", result)
	}
	if len(users.inserted) != 0 {
		t.Fatalf("no insert expected, got %+v", users.inserted)
	}
}

func TestRegisterLinksPendingPartner(t *testing.T) {
	users := &fakeUsersRepo{}
	partners := &fakePartnersRepo{}
	svc := NewService(users, partners)

	if _, err := svc.Register(context.Background(), model.User{TgID: 55, Username: "future_partner"}, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if partners.linked["future_partner"] != 55 {
		t.Fatalf("expected pending link fill, got %+v", partners.linked)
	}
}

func TestRegisterPropagatesRepoError(t *testing.T) {
	users := &fakeUsersRepo{}
	svc := NewService(users, failingPartnersRepo{})

	_, err := svc.Register(context.Background(), model.User{TgID: 1}, "ref_ANY")
	if err == nil {
		t.Fatal("expected error")
	}
}

type failingPartnersRepo struct{}

func (failingPartnersRepo) GetByCode(context.Context, string) (model.Partner, error) {
	return model.Partner{}, errors.New("boom")
}

func (failingPartnersRepo) LinkUserID(context.Context, string, int64) error {
	return errors.New("boom")
}

func TestInviteLink(t *testing.T) {
	link := InviteLink("ref_demo_bot", "AB12CD34")
	want := "https://t.me/ref_demo_bot?start=ref_AB12CD34"
	if link != want {
		t.Fatalf("InviteLink = %q, want %q", link, want)
	}
}
