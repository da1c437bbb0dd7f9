package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// containsFold matches any string value holding term, ignoring case. The term
// is quoted so that user input is matched literally.
func containsFold(term string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// anyFieldContains builds an $or filter matching documents where at least one
// of fields contains term. An empty term matches everything.
func anyFieldContains(term string, fields ...string) bson.M {
	if term == "" {
		return bson.M{}
	}
	re := containsFold(term)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return bson.M{"$or": or}
}

// GenreSearchFilter matches genres by name, slug or description.
func GenreSearchFilter(term string) bson.M {
	return anyFieldContains(term, "name", "slug", "description")
}

// MovieSearchFilter matches movies by title.
func MovieSearchFilter(term string) bson.M {
	return anyFieldContains(term, "title")
}
