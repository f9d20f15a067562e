package access

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreAllowList reads settings/allowedEmails
type FirestoreAllowList struct {
	client *firestore.Client
}

func NewFirestoreAllowList(client *firestore.Client) *FirestoreAllowList {
	return &FirestoreAllowList{client: client}
}

func (a *FirestoreAllowList) Emails(ctx context.Context) ([]string, bool, error) {
	snap, err := a.client.Collection("settings").Doc("allowedEmails").Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read allowed emails: %w", err)
	}

	var settings struct {
		Emails []string `firestore:"emails"`
	}
	if err := snap.DataTo(&settings); err != nil {
		return nil, false, fmt.Errorf("failed to decode allowed emails: %w", err)
	}
	return settings.Emails, true, nil
}
