package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/cppla/blogapi/utils"
)

func TestParseQueryCriteria(t *testing.T) {
	cases := []struct {
		raw  string
		want bson.M
	}{
		{"category=tech", bson.M{"category": "tech"}},
		{"readTime.value=5", bson.M{"readTime.value": int64(5)}},
		{"published=true", bson.M{"published": true}},
		{"category=tech,life", bson.M{"category": bson.M{"$in": bson.A{"tech", "life"}}}},
		{"category=!tech", bson.M{"category": bson.M{"$ne": "tech"}}},
		{"category=!tech,life", bson.M{"category": bson.M{"$nin": bson.A{"tech", "life"}}}},
		{"category!=tech", bson.M{"category": bson.M{"$ne": "tech"}}},
		{"readTime.value>2&readTime.value<=10", bson.M{"readTime.value": bson.M{"$gt": int64(2), "$lte": int64(10)}}},
		{"readTime.value>=1.5", bson.M{"readTime.value": bson.M{"$gte": 1.5}}},
		{"title=hello%20world", bson.M{"title": "hello world"}},
	}
	for _, c := range cases {
		q, err := ParseQuery(c.raw)
		require.NoError(t, err, c.raw)
		require.Equal(t, c.want, q.Criteria, c.raw)
	}

	for _, raw := range []string{
		"$where=sleep(5000)||true",
		"$expr=1",
		"%24where=1",
		"title&$where",
		"comments.$.comment=x",
		"sort=$natural",
		"fields=comments.$",
	} {
		_, err := ParseQuery(raw)
		require.Equal(t, utils.KindBadRequest, utils.KindOf(err), raw)
	}
}

func TestParseQueryProjectionMix(t *testing.T) {
	_, err := ParseQuery("fields=title&omit=comments")
	require.Equal(t, utils.KindBadRequest, utils.KindOf(err))

	q, err := ParseQuery("fields=title&omit=_id")
	require.NoError(t, err)
	require.Equal(t, bson.M{"title": 1, "_id": 0}, q.Projection)
}

func TestParseQueryPaging(t *testing.T) {
	q, err := ParseQuery("")
	require.NoError(t, err)
	require.EqualValues(t, DefaultPageLimit, q.Limit)
	require.EqualValues(t, 0, q.Skip)

	q, err = ParseQuery("limit=500&offset=20&sort=-createdAt,title&fields=title,category")
	require.NoError(t, err)
	require.EqualValues(t, MaxPageLimit, q.Limit)
	require.EqualValues(t, 20, q.Skip)
	require.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "title", Value: 1}}, q.Sort)
	require.Equal(t, bson.M{"title": 1, "category": 1}, q.Projection)
	require.Empty(t, q.Criteria)

	q, err = ParseQuery("omit=comments&skip=5")
	require.NoError(t, err)
	require.Equal(t, bson.M{"comments": 0}, q.Projection)
	require.EqualValues(t, 5, q.Skip)

	for _, bad := range []string{"limit=0", "limit=abc", "skip=-1", "title=%zz"} {
		_, err = ParseQuery(bad)
		require.Equal(t, utils.KindBadRequest, utils.KindOf(err), bad)
	}
}

func TestQueryLinks(t *testing.T) {
	q, err := ParseQuery("category=tech&limit=10&offset=10")
	require.NoError(t, err)

	links := q.Links("http://localhost:3001/comments", 35)
	require.Equal(t, "http://localhost:3001/comments?category=tech&limit=10&offset=0", links.First)
	require.Equal(t, "http://localhost:3001/comments?category=tech&limit=10&offset=0", links.Prev)
	require.Equal(t, "http://localhost:3001/comments?category=tech&limit=10&offset=20", links.Next)
	require.Equal(t, "http://localhost:3001/comments?category=tech&limit=10&offset=30", links.Last)
	require.EqualValues(t, 4, q.TotalPages(35))

	q, err = ParseQuery("")
	require.NoError(t, err)
	links = q.Links("/comments", 3)
	require.Empty(t, links.Prev)
	require.Empty(t, links.Next)
	require.Empty(t, links.Last)
	require.EqualValues(t, 1, q.TotalPages(3))
	require.EqualValues(t, 0, q.TotalPages(0))
}
