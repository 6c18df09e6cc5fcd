package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"campusride-backend/internal/apperr"
	"campusride-backend/internal/models"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is the document-store adapter. It owns no entity state:
// every document is owned by the backend; callers hold transient,
// derived copies reconciled on each snapshot.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore connects using a service-account credentials file
func NewFirestore(ctx context.Context, credentialsFile string) (*Firestore, error) {
	return newFirestore(ctx, option.WithCredentialsFile(credentialsFile))
}

// NewFirestoreFromBase64 connects using base64-encoded credentials.
// Useful for cloud deployments where uploading files is awkward.
func NewFirestoreFromBase64(ctx context.Context, credentialsBase64 string) (*Firestore, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFirestore(ctx, option.WithCredentialsJSON(credentialsJSON))
}

func newFirestore(ctx context.Context, opt option.ClientOption) (*Firestore, error) {
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (f *Firestore) Close() error {
	return f.client.Close()
}

// ========================================
// USER OPERATIONS
// ========================================

// GetUser fetches a user document
func (f *Firestore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	doc, err := f.client.Collection(CollectionUsers).Doc(userID).Get(ctx)
	if err != nil {
		return nil, apperr.Transientf("get user %s: %v", userID, err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, apperr.Transientf("decode user %s: %v", userID, err)
	}
	if user.UserID == "" {
		user.UserID = doc.Ref.ID
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email for login
func (f *Firestore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	iter := f.client.Collection(CollectionUsers).
		Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, apperr.Validationf("no user with email %s", email)
	}
	if err != nil {
		return nil, apperr.Transientf("query user by email: %v", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, apperr.Transientf("decode user: %v", err)
	}
	if user.UserID == "" {
		user.UserID = doc.Ref.ID
	}
	return &user, nil
}

// SaveUser creates or replaces a user document
func (f *Firestore) SaveUser(ctx context.Context, user *models.User) error {
	if _, err := f.client.Collection(CollectionUsers).Doc(user.UserID).Set(ctx, user); err != nil {
		return apperr.Transientf("save user %s: %v", user.UserID, err)
	}
	return nil
}

// UpdateUser applies a partial field update to a user document
func (f *Firestore) UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) error {
	if _, err := f.client.Collection(CollectionUsers).Doc(userID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return apperr.Transientf("update user %s: %v", userID, err)
	}
	return nil
}

// UpdateFavoriteStops replaces the user's favorite stop list
func (f *Firestore) UpdateFavoriteStops(ctx context.Context, userID string, stopIDs []string) error {
	return f.UpdateUser(ctx, userID, map[string]interface{}{"favoriteStops": stopIDs})
}

// RegisterFCMToken stores a refreshed push token on the user document
func (f *Firestore) RegisterFCMToken(ctx context.Context, userID, token string) error {
	return f.UpdateUser(ctx, userID, map[string]interface{}{"fcmToken": token})
}

// ListRiderFCMTokens returns the registered push tokens of all riders.
// Riders without a token are skipped client side so the query needs no
// composite index.
func (f *Firestore) ListRiderFCMTokens(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(CollectionUsers).
		Where("role", "==", "rider").Documents(ctx)
	defer iter.Stop()

	var tokens []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Transientf("list rider tokens: %v", err)
		}
		var user models.User
		if err := doc.DataTo(&user); err != nil {
			log.Printf("⚠️ Skipping malformed user document %s: %v", doc.Ref.ID, err)
			continue
		}
		if user.FCMToken != "" {
			tokens = append(tokens, user.FCMToken)
		}
	}
	return tokens, nil
}

// ========================================
// DRIVER / SHUTTLE OPERATIONS
// ========================================

// GetDriver fetches a driver document
func (f *Firestore) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	doc, err := f.client.Collection(CollectionDrivers).Doc(driverID).Get(ctx)
	if err != nil {
		return nil, apperr.Transientf("get driver %s: %v", driverID, err)
	}
	var driver models.Driver
	if err := doc.DataTo(&driver); err != nil {
		return nil, apperr.Transientf("decode driver %s: %v", driverID, err)
	}
	if driver.DriverID == "" {
		driver.DriverID = doc.Ref.ID
	}
	return &driver, nil
}

// GetShuttle fetches a shuttle document
func (f *Firestore) GetShuttle(ctx context.Context, shuttleID string) (*models.Shuttle, error) {
	doc, err := f.client.Collection(CollectionShuttles).Doc(shuttleID).Get(ctx)
	if err != nil {
		return nil, apperr.Transientf("get shuttle %s: %v", shuttleID, err)
	}
	var shuttle models.Shuttle
	if err := doc.DataTo(&shuttle); err != nil {
		return nil, apperr.Transientf("decode shuttle %s: %v", shuttleID, err)
	}
	if shuttle.ShuttleID == "" {
		shuttle.ShuttleID = doc.Ref.ID
	}
	return &shuttle, nil
}

// ApplyShiftTransition writes the driver and shuttle sides of a shift
// transition as one transaction, so the two state machines can never be
// observed out of sync.
func (f *Firestore) ApplyShiftTransition(ctx context.Context, driverID, shuttleID string,
	driverFields, shuttleFields map[string]interface{}) error {

	driverRef := f.client.Collection(CollectionDrivers).Doc(driverID)
	shuttleRef := f.client.Collection(CollectionShuttles).Doc(shuttleID)

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(driverRef, driverFields, firestore.MergeAll); err != nil {
			return err
		}
		return tx.Set(shuttleRef, shuttleFields, firestore.MergeAll)
	})
	if err != nil {
		return apperr.Transientf("shift transition driver=%s shuttle=%s: %v", driverID, shuttleID, err)
	}
	return nil
}

// UpdateShuttle applies a partial field update to a shuttle document
func (f *Firestore) UpdateShuttle(ctx context.Context, shuttleID string, fields map[string]interface{}) error {
	if _, err := f.client.Collection(CollectionShuttles).Doc(shuttleID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return apperr.Transientf("update shuttle %s: %v", shuttleID, err)
	}
	return nil
}

// UpdateShuttleLocation writes a position fix. Both coordinates are
// always written together with the timestamp.
func (f *Firestore) UpdateShuttleLocation(ctx context.Context, shuttleID string, lat, lng float64) error {
	return f.UpdateShuttle(ctx, shuttleID, map[string]interface{}{
		"currentLocation": &models.GeoPoint{Latitude: lat, Longitude: lng},
		"lastUpdated":     time.Now(),
	})
}

// UpdatePassengerCount writes the current passenger count (unclamped)
func (f *Firestore) UpdatePassengerCount(ctx context.Context, shuttleID string, count int) error {
	return f.UpdateShuttle(ctx, shuttleID, map[string]interface{}{
		"currentPassengers": count,
		"lastUpdated":       time.Now(),
	})
}

// IncrementDriverTrips bumps the driver's cumulative trip counter
func (f *Firestore) IncrementDriverTrips(ctx context.Context, driverID string) error {
	ref := f.client.Collection(CollectionDrivers).Doc(driverID)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var driver models.Driver
		if err := doc.DataTo(&driver); err != nil {
			return err
		}
		return tx.Set(ref, map[string]interface{}{"totalTrips": driver.TotalTrips + 1}, firestore.MergeAll)
	})
	if err != nil {
		return apperr.Transientf("increment trips for driver %s: %v", driverID, err)
	}
	return nil
}

// SaveDriver creates or replaces a driver document (seed tooling)
func (f *Firestore) SaveDriver(ctx context.Context, driver *models.Driver) error {
	if _, err := f.client.Collection(CollectionDrivers).Doc(driver.DriverID).Set(ctx, driver); err != nil {
		return apperr.Transientf("save driver %s: %v", driver.DriverID, err)
	}
	return nil
}

// SaveShuttle creates or replaces a shuttle document (seed tooling)
func (f *Firestore) SaveShuttle(ctx context.Context, shuttle *models.Shuttle) error {
	if _, err := f.client.Collection(CollectionShuttles).Doc(shuttle.ShuttleID).Set(ctx, shuttle); err != nil {
		return apperr.Transientf("save shuttle %s: %v", shuttle.ShuttleID, err)
	}
	return nil
}

// SaveStop creates or replaces a stop document (seed tooling)
func (f *Firestore) SaveStop(ctx context.Context, stop *models.Stop) error {
	if _, err := f.client.Collection(CollectionStops).Doc(stop.StopID).Set(ctx, stop); err != nil {
		return apperr.Transientf("save stop %s: %v", stop.StopID, err)
	}
	return nil
}

// SaveRoute creates or replaces a route document (seed tooling)
func (f *Firestore) SaveRoute(ctx context.Context, route *models.Route) error {
	if _, err := f.client.Collection(CollectionRoutes).Doc(route.RouteID).Set(ctx, route); err != nil {
		return apperr.Transientf("save route %s: %v", route.RouteID, err)
	}
	return nil
}

// ========================================
// REPORT OPERATIONS
// ========================================

// AddReport stores a new report and returns its generated id
func (f *Firestore) AddReport(ctx context.Context, report *models.Report) (string, error) {
	ref, _, err := f.client.Collection(CollectionReports).Add(ctx, report)
	if err != nil {
		return "", apperr.Transientf("add report: %v", err)
	}
	return ref.ID, nil
}

// UpdateReport applies a partial field update to a report document
func (f *Firestore) UpdateReport(ctx context.Context, reportID string, fields map[string]interface{}) error {
	if _, err := f.client.Collection(CollectionReports).Doc(reportID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return apperr.Transientf("update report %s: %v", reportID, err)
	}
	return nil
}

// GetReport fetches a report document
func (f *Firestore) GetReport(ctx context.Context, reportID string) (*models.Report, error) {
	doc, err := f.client.Collection(CollectionReports).Doc(reportID).Get(ctx)
	if err != nil {
		return nil, apperr.Transientf("get report %s: %v", reportID, err)
	}
	var report models.Report
	if err := doc.DataTo(&report); err != nil {
		return nil, apperr.Transientf("decode report %s: %v", reportID, err)
	}
	if report.ReportID == "" {
		report.ReportID = doc.Ref.ID
	}
	return &report, nil
}

// ListReportsForUser returns a user's reports, newest first
func (f *Firestore) ListReportsForUser(ctx context.Context, userID string) ([]models.Report, error) {
	q := f.client.Collection(CollectionReports).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return f.collectReports(ctx, q)
}

// ListOpenReports returns the admin triage queue (pending and
// in-progress), oldest first.
func (f *Firestore) ListOpenReports(ctx context.Context) ([]models.Report, error) {
	q := f.client.Collection(CollectionReports).
		Where("status", "in", []string{string(models.ReportPending), string(models.ReportInProgress)}).
		OrderBy("createdAt", firestore.Asc)
	return f.collectReports(ctx, q)
}

func (f *Firestore) collectReports(ctx context.Context, q firestore.Query) ([]models.Report, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var reports []models.Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Transientf("list reports: %v", err)
		}
		var report models.Report
		if err := doc.DataTo(&report); err != nil {
			log.Printf("⚠️  Skipping undecodable report %s: %v", doc.Ref.ID, err)
			continue
		}
		if report.ReportID == "" {
			report.ReportID = doc.Ref.ID
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ========================================
// ONE-SHOT LISTS
// ========================================
// REST endpoints serve point-in-time snapshots; live consumers use the
// snapshot feeds below instead.

// ListStops returns the active stop set
func (f *Firestore) ListStops(ctx context.Context) ([]models.Stop, error) {
	iter := f.client.Collection(CollectionStops).Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var stops []models.Stop
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Transientf("list stops: %v", err)
		}
		var stop models.Stop
		if err := doc.DataTo(&stop); err != nil {
			log.Printf("⚠️  Skipping undecodable stop %s: %v", doc.Ref.ID, err)
			continue
		}
		if stop.StopID == "" {
			stop.StopID = doc.Ref.ID
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

// ListRoutes returns the active route set
func (f *Firestore) ListRoutes(ctx context.Context) ([]models.Route, error) {
	iter := f.client.Collection(CollectionRoutes).Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var routes []models.Route
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Transientf("list routes: %v", err)
		}
		var route models.Route
		if err := doc.DataTo(&route); err != nil {
			log.Printf("⚠️  Skipping undecodable route %s: %v", doc.Ref.ID, err)
			continue
		}
		if route.RouteID == "" {
			route.RouteID = doc.Ref.ID
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// ListShuttles returns the entire shuttle set, unfiltered
func (f *Firestore) ListShuttles(ctx context.Context) ([]models.Shuttle, error) {
	iter := f.client.Collection(CollectionShuttles).Documents(ctx)
	defer iter.Stop()

	var shuttles []models.Shuttle
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Transientf("list shuttles: %v", err)
		}
		var shuttle models.Shuttle
		if err := doc.DataTo(&shuttle); err != nil {
			log.Printf("⚠️  Skipping undecodable shuttle %s: %v", doc.Ref.ID, err)
			continue
		}
		if shuttle.ShuttleID == "" {
			shuttle.ShuttleID = doc.Ref.ID
		}
		shuttles = append(shuttles, shuttle)
	}
	return shuttles, nil
}

// GetStop fetches a stop document
func (f *Firestore) GetStop(ctx context.Context, stopID string) (*models.Stop, error) {
	doc, err := f.client.Collection(CollectionStops).Doc(stopID).Get(ctx)
	if err != nil {
		return nil, apperr.Transientf("get stop %s: %v", stopID, err)
	}
	var stop models.Stop
	if err := doc.DataTo(&stop); err != nil {
		return nil, apperr.Transientf("decode stop %s: %v", stopID, err)
	}
	if stop.StopID == "" {
		stop.StopID = doc.Ref.ID
	}
	return &stop, nil
}

// ========================================
// SNAPSHOT FEEDS
// ========================================
// Each feed delivers the complete current document set on every change,
// never a diff. Consumers replace their whole in-memory collection per
// delivery.

// SubscribeStops streams full snapshots of the active stop set
func (f *Firestore) SubscribeStops(ctx context.Context, fn func([]models.Stop)) (*Subscription, error) {
	q := f.client.Collection(CollectionStops).Where("isActive", "==", true)
	return subscribeQuery(ctx, q, fn, func(doc *firestore.DocumentSnapshot) (models.Stop, error) {
		var stop models.Stop
		err := doc.DataTo(&stop)
		if stop.StopID == "" {
			stop.StopID = doc.Ref.ID
		}
		return stop, err
	})
}

// SubscribeRoutes streams full snapshots of the active route set
func (f *Firestore) SubscribeRoutes(ctx context.Context, fn func([]models.Route)) (*Subscription, error) {
	q := f.client.Collection(CollectionRoutes).Where("isActive", "==", true)
	return subscribeQuery(ctx, q, fn, func(doc *firestore.DocumentSnapshot) (models.Route, error) {
		var route models.Route
		err := doc.DataTo(&route)
		if route.RouteID == "" {
			route.RouteID = doc.Ref.ID
		}
		return route, err
	})
}

// SubscribeShuttles streams full snapshots of the entire shuttle set.
// Availability filtering is the consumer's concern, matching the feed's
// full-snapshot contract.
func (f *Firestore) SubscribeShuttles(ctx context.Context, fn func([]models.Shuttle)) (*Subscription, error) {
	q := f.client.Collection(CollectionShuttles).Query
	return subscribeQuery(ctx, q, fn, func(doc *firestore.DocumentSnapshot) (models.Shuttle, error) {
		var shuttle models.Shuttle
		err := doc.DataTo(&shuttle)
		if shuttle.ShuttleID == "" {
			shuttle.ShuttleID = doc.Ref.ID
		}
		return shuttle, err
	})
}

// SubscribeDriver streams the driver's own document
func (f *Firestore) SubscribeDriver(ctx context.Context, driverID string, fn func(*models.Driver)) (*Subscription, error) {
	return f.subscribeDoc(ctx, CollectionDrivers, driverID, func(doc *firestore.DocumentSnapshot) {
		var driver models.Driver
		if err := doc.DataTo(&driver); err != nil {
			log.Printf("⚠️  Undecodable driver snapshot %s: %v", driverID, err)
			return
		}
		if driver.DriverID == "" {
			driver.DriverID = doc.Ref.ID
		}
		fn(&driver)
	})
}

// SubscribeShuttle streams a single shuttle document
func (f *Firestore) SubscribeShuttle(ctx context.Context, shuttleID string, fn func(*models.Shuttle)) (*Subscription, error) {
	return f.subscribeDoc(ctx, CollectionShuttles, shuttleID, func(doc *firestore.DocumentSnapshot) {
		var shuttle models.Shuttle
		if err := doc.DataTo(&shuttle); err != nil {
			log.Printf("⚠️  Undecodable shuttle snapshot %s: %v", shuttleID, err)
			return
		}
		if shuttle.ShuttleID == "" {
			shuttle.ShuttleID = doc.Ref.ID
		}
		fn(&shuttle)
	})
}

func subscribeQuery[T any](ctx context.Context, q firestore.Query, fn func([]T),
	decode func(*firestore.DocumentSnapshot) (T, error)) (*Subscription, error) {

	ctx, cancel := context.WithCancel(ctx)
	snaps := q.Snapshots(ctx)

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				log.Printf("❌ Snapshot feed closed: %v", err)
				return
			}

			items := make([]T, 0, snap.Size)
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Printf("❌ Snapshot iteration error: %v", err)
					break
				}
				item, err := decode(doc)
				if err != nil {
					log.Printf("⚠️  Skipping undecodable document %s: %v", doc.Ref.ID, err)
					continue
				}
				items = append(items, item)
			}
			fn(items)
		}
	}()

	return NewSubscription(cancel), nil
}

func (f *Firestore) subscribeDoc(ctx context.Context, collection, id string,
	fn func(*firestore.DocumentSnapshot)) (*Subscription, error) {

	ctx, cancel := context.WithCancel(ctx)
	snaps := f.client.Collection(collection).Doc(id).Snapshots(ctx)

	go func() {
		defer snaps.Stop()
		for {
			doc, err := snaps.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				log.Printf("❌ Document feed closed (%s/%s): %v", collection, id, err)
				return
			}
			if !doc.Exists() {
				continue
			}
			fn(doc)
		}
	}()

	return NewSubscription(cancel), nil
}
