package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/bson"

	"prayerchain/internal/auth"
)

var errBadID = errors.New("malformed id")

// pathID reads a path variable as an ObjectID.
func pathID(r *http.Request, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return bson.ObjectID{}, errBadID
	}
	return id, nil
}

// parseDate reads an optional form date. Accepts a plain date or RFC 3339;
// empty input returns the zero time so constructors apply their defaults.
func parseDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *Server) validPassword(hash, password string) bool {
	return auth.ValidPassword(s.log, hash, password)
}
