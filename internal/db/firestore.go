package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// InitFirestore initializes the Firebase Admin SDK and returns a Firestore
// client. Credentials come from GOOGLE_APPLICATION_CREDENTIALS (a file),
// FIREBASE_SERVICE_ACCOUNT_JSON_BASE64, or Application Default Credentials.
func InitFirestore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*firestore.Client, error) {
	if appConfig == nil {
		return nil, errors.New("InitFirestore: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file",
			zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	var firebaseAppConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		firebaseAppConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, firebaseAppConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	logger.Info("Firestore client initialized", zap.String("projectID", appConfig.FirebaseProjectID))
	return client, nil
}

// FirestoreBackend keeps the whole tracker in one shared document and
// pushes every remote change to subscribers.
type FirestoreBackend struct {
	client *firestore.Client
	doc    *firestore.DocumentRef
	names  map[string]string
	logger *zap.Logger
}

// NewFirestoreBackend creates a backend on collection/document. names is the
// legacy name map applied to every snapshot.
func NewFirestoreBackend(client *firestore.Client, collection, document string, names map[string]string, logger *zap.Logger) *FirestoreBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirestoreBackend{
		client: client,
		doc:    client.Collection(collection).Doc(document),
		names:  names,
		logger: logger,
	}
}

func (f *FirestoreBackend) Mode() string { return core.ModeStore }

// Close releases the Firestore client.
func (f *FirestoreBackend) Close() error { return f.client.Close() }

// EnsureDocument creates the empty {users: [], entries: {}} document if it
// does not exist yet.
func (f *FirestoreBackend) EnsureDocument(ctx context.Context) error {
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(f.doc)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if snap != nil && snap.Exists() {
			return nil
		}
		f.logger.Info("Creating tracker document", zap.String("path", f.doc.Path))
		return tx.Set(f.doc, models.NewState().ToDocument())
	})
	if err != nil {
		return fmt.Errorf("failed to ensure document %s: %w", f.doc.ID, err)
	}
	return nil
}

// Load reads the document once. A missing document is the empty shell.
func (f *FirestoreBackend) Load(ctx context.Context) (*models.TrackerState, error) {
	snap, err := f.doc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.NewState(), nil
		}
		return nil, fmt.Errorf("failed to get document %s: %w", f.doc.ID, err)
	}
	return f.decode(snap), nil
}

// Watch delivers a snapshot for the current document and for every change
// after it, until ctx is done.
func (f *FirestoreBackend) Watch(ctx context.Context, deliver func(*models.TrackerState)) error {
	it := f.doc.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return ctx.Err()
			}
			return fmt.Errorf("snapshot listener on %s: %w", f.doc.ID, err)
		}
		deliver(f.decode(snap))
	}
}

// Mark writes exactly entries.<date>.<user>.
func (f *FirestoreBackend) Mark(ctx context.Context, date, user string, st models.Status) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		view, exists, err := f.read(tx)
		if err != nil {
			return err
		}
		w, err := planMark(view, exists, date, user, st)
		if err != nil {
			return err
		}
		return w.apply(tx, f.doc)
	})
}

// CloseDay writes missed for every active user without a status on date,
// as read inside the transaction.
func (f *FirestoreBackend) CloseDay(ctx context.Context, date string) (int, error) {
	changed := 0
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		view, exists, err := f.read(tx)
		if err != nil {
			return err
		}
		var w storeWrite
		w, changed = planCloseDay(view, exists, date)
		return w.apply(tx, f.doc)
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// InitUsers replaces the users field and keeps the entries.
func (f *FirestoreBackend) InitUsers(ctx context.Context, users []string) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		view, exists, err := f.read(tx)
		if err != nil {
			return err
		}
		return planInitUsers(view, exists, users).apply(tx, f.doc)
	})
}

// RenameUsers rewrites the whole document with mapping applied.
func (f *FirestoreBackend) RenameUsers(ctx context.Context, mapping map[string]string) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(f.doc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				f.logger.Info("No tracker document to migrate", zap.String("path", f.doc.Path))
				return nil
			}
			return err
		}
		renamed := core.RemapNames(models.FromDocument(snap.Data()), mapping)
		return tx.Set(f.doc, renamed.ToDocument())
	})
}

// read returns the remapped view of the document inside tx.
func (f *FirestoreBackend) read(tx *firestore.Transaction) (*models.TrackerState, bool, error) {
	snap, err := tx.Get(f.doc)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.NewState(), false, nil
		}
		return nil, false, fmt.Errorf("failed to read document %s: %w", f.doc.ID, err)
	}
	return f.decode(snap), true, nil
}

func (f *FirestoreBackend) decode(snap *firestore.DocumentSnapshot) *models.TrackerState {
	if snap == nil || !snap.Exists() {
		return models.NewState()
	}
	return core.RemapNames(models.FromDocument(snap.Data()), f.names)
}

// storeWrite is what one transaction writes: the whole document when it does
// not exist yet, otherwise only the touched fields.
type storeWrite struct {
	set     map[string]interface{}
	updates []firestore.Update
}

func (w storeWrite) apply(tx *firestore.Transaction, doc *firestore.DocumentRef) error {
	if w.set != nil {
		return tx.Set(doc, w.set)
	}
	if len(w.updates) == 0 {
		return nil
	}
	return tx.Update(doc, w.updates)
}

// planMark validates the mark against the remapped view. Only the new-name
// field is written, so legacy keys at rest are left for migrate-names.
func planMark(view *models.TrackerState, exists bool, date, user string, st models.Status) (storeWrite, error) {
	if err := view.SetEntry(date, user, st); err != nil {
		return storeWrite{}, err
	}
	if !exists {
		return storeWrite{set: view.ToDocument()}, nil
	}
	return storeWrite{updates: []firestore.Update{
		{FieldPath: firestore.FieldPath{"entries", date, user}, Value: string(st)},
	}}, nil
}

func planCloseDay(view *models.TrackerState, exists bool, date string) (storeWrite, int) {
	missing := view.MissingOn(date)
	if len(missing) == 0 {
		return storeWrite{}, 0
	}
	if !exists {
		view.CloseDay(date)
		return storeWrite{set: view.ToDocument()}, len(missing)
	}
	updates := make([]firestore.Update, 0, len(missing))
	for _, u := range missing {
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{"entries", date, u},
			Value:     string(models.StatusMissed),
		})
	}
	return storeWrite{updates: updates}, len(missing)
}

func planInitUsers(view *models.TrackerState, exists bool, users []string) storeWrite {
	view.InitUsers(users)
	if !exists {
		return storeWrite{set: view.ToDocument()}
	}
	return storeWrite{updates: []firestore.Update{{Path: "users", Value: view.Users}}}
}
