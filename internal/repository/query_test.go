package repository

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// stageKeys returns the operator of every pipeline stage.
func stageKeys(p mongo.Pipeline) []string {
	keys := make([]string, 0, len(p))
	for _, st := range p {
		keys = append(keys, st[0].Key)
	}
	return keys
}

func dmap(d bson.D) map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

func stageValue(t *testing.T, p mongo.Pipeline, i int) any {
	t.Helper()
	if i >= len(p) {
		t.Fatalf("pipeline has %d stages, want stage %d", len(p), i)
	}
	return p[i][0].Value
}

func lookupTarget(t *testing.T, stage any) (from, as string) {
	t.Helper()
	d, ok := stage.(bson.D)
	if !ok {
		t.Fatalf("$lookup stage = %T", stage)
	}
	m := dmap(d)
	return m["from"].(string), m["as"].(string)
}

func TestBySlugPipeline(t *testing.T) {
	p := bySlugPipeline("heat")
	want := []string{"$match", "$limit", "$lookup", "$lookup"}
	if got := stageKeys(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	if m := stageValue(t, p, 0).(bson.M); m["slug"] != "heat" {
		t.Errorf("$match = %v", m)
	}
	if from, as := lookupTarget(t, stageValue(t, p, 2)); from != ActorsCollection || as != "actors" {
		t.Errorf("first $lookup from %s as %s", from, as)
	}
	if from, as := lookupTarget(t, stageValue(t, p, 3)); from != GenresCollection || as != "genres" {
		t.Errorf("second $lookup from %s as %s", from, as)
	}
}

func TestListPipelineSortsNewestFirstAndHidesUpdatedAt(t *testing.T) {
	p := listPipeline("heat")
	want := []string{"$match", "$sort", "$project", "$lookup", "$lookup"}
	if got := stageKeys(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(stageValue(t, p, 0), MovieSearchFilter("heat")) {
		t.Errorf("$match = %v", stageValue(t, p, 0))
	}
	if sort := stageValue(t, p, 1).(bson.D); sort[0].Key != "createdAt" || sort[0].Value != -1 {
		t.Errorf("$sort = %v", sort)
	}
	proj := dmap(stageValue(t, p, 2).(bson.D))
	if proj["updatedAt"] != 0 || proj["__v"] != 0 {
		t.Errorf("$project = %v", proj)
	}
}

func TestPopularPipeline(t *testing.T) {
	p := popularPipeline()
	want := []string{"$match", "$sort", "$lookup", "$project"}
	if got := stageKeys(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	match := stageValue(t, p, 0).(bson.M)
	if !reflect.DeepEqual(match["countOpened"], bson.M{"$gt": 0}) {
		t.Errorf("$match = %v", match)
	}
	if sort := stageValue(t, p, 1).(bson.D); sort[0].Key != "countOpened" || sort[0].Value != -1 {
		t.Errorf("$sort = %v", sort)
	}
	if from, _ := lookupTarget(t, stageValue(t, p, 2)); from != GenresCollection {
		t.Errorf("$lookup from %s", from)
	}
	if proj := dmap(stageValue(t, p, 3).(bson.D)); proj["actors"] != 0 {
		t.Errorf("$project = %v", proj)
	}
}

func TestIncrementOpenedUpdate(t *testing.T) {
	u := incrementOpenedUpdate()
	if !reflect.DeepEqual(u["$inc"], bson.M{"countOpened": 1}) {
		t.Errorf("$inc = %v", u["$inc"])
	}
	if !reflect.DeepEqual(u["$currentDate"], bson.M{"updatedAt": true}) {
		t.Errorf("$currentDate = %v", u["$currentDate"])
	}
	if _, ok := u["$set"]; ok {
		t.Error("increment must not $set fields")
	}
}

func TestSetUpdateStampsUpdatedAt(t *testing.T) {
	in := model.GenreInput{Name: "Drama"}
	u := setUpdate(in)
	if !reflect.DeepEqual(u["$set"], in) {
		t.Errorf("$set = %v", u["$set"])
	}
	if !reflect.DeepEqual(u["$currentDate"], bson.M{"updatedAt": true}) {
		t.Errorf("$currentDate = %v", u["$currentDate"])
	}
}

func TestMovieInputCannotSetAnnouncementFlag(t *testing.T) {
	raw, err := bson.Marshal(model.MovieInput{Title: "Heat"})
	if err != nil {
		t.Fatal(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"isSendTelegram", "countOpened", "rating", "createdAt"} {
		if _, ok := doc[key]; ok {
			t.Errorf("MovieInput encodes server-owned field %s", key)
		}
	}
}

func TestAnnouncementCompareAndSet(t *testing.T) {
	id := bson.NewObjectID()
	filter, update := claimAnnouncement(id)
	if filter["_id"] != id || !reflect.DeepEqual(filter["isSendTelegram"], bson.M{"$ne": true}) {
		t.Errorf("claim filter = %v", filter)
	}
	if !reflect.DeepEqual(update, bson.M{"$set": bson.M{"isSendTelegram": true}}) {
		t.Errorf("claim update = %v", update)
	}

	filter, update = releaseAnnouncement(id)
	if !reflect.DeepEqual(filter, bson.M{"_id": id}) {
		t.Errorf("release filter = %v", filter)
	}
	if !reflect.DeepEqual(update, bson.M{"$set": bson.M{"isSendTelegram": false}}) {
		t.Errorf("release update = %v", update)
	}
}

func TestGenreListOptions(t *testing.T) {
	var fo options.FindOptions
	for _, set := range genreListOptions().List() {
		if err := set(&fo); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(fo.Sort, byCreatedDesc) {
		t.Errorf("sort = %v", fo.Sort)
	}
	if !reflect.DeepEqual(fo.Projection, listProjection) {
		t.Errorf("projection = %v", fo.Projection)
	}
}

func TestTranslateWriteErr(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no documents", mongo.ErrNoDocuments, ErrNotFound},
		{"duplicate key", dup, ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translateWriteErr(tc.in); got != tc.want {
				t.Errorf("translateWriteErr(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	other := fmt.Errorf("socket closed")
	got := translateWriteErr(other)
	if got == nil || errors.Is(got, ErrNotFound) || errors.Is(got, ErrConflict) || !errors.Is(got, other) {
		t.Errorf("translateWriteErr(other) = %v", got)
	}
}
