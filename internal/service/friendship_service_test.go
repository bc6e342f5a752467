package service

import (
	"errors"
	"testing"

	"meetup_bot/internal/repository"
	"meetup_bot/internal/util"
)

func TestSendRequestToSelfRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendshipService(repository.NewFriendshipRepository(db, nil))

	if _, err := svc.SendRequest(100, 100); !errors.Is(err, util.ErrSelfRequest) {
		t.Fatalf("SendRequest to self = %v, want ErrSelfRequest", err)
	}

	// nothing was recorded
	incoming, err := svc.IncomingRequests(100)
	if err != nil {
		t.Fatalf("IncomingRequests: %v", err)
	}
	if len(incoming) != 0 {
		t.Errorf("incoming after self request = %d, want 0", len(incoming))
	}
}

func TestAcceptRetractsReverseRequestMessage(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendshipService(repository.NewFriendshipRepository(db, nil))

	if _, err := svc.SendRequest(100, 200); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := svc.SendRequest(200, 100); err != nil {
		t.Fatalf("reverse SendRequest: %v", err)
	}
	if err := svc.BindRequestMessage(200, 100, 777); err != nil {
		t.Fatalf("BindRequestMessage: %v", err)
	}

	result, err := svc.Accept(200, 100)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if !result.ReverseResolved || result.ReverseMessageID == nil || *result.ReverseMessageID != 777 {
		t.Errorf("AcceptResult = %+v, want reverse resolved with message 777", result)
	}

	friends, err := svc.AreFriends(100, 200)
	if err != nil {
		t.Fatalf("AreFriends: %v", err)
	}
	if !friends {
		t.Error("AreFriends = false after accept")
	}
}
