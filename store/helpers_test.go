package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNS = "blog.docs"

// doc converts a model into the document form mock responses carry.
func doc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func findResponse(docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, docs...)
}

func updatedResponse(d bson.D) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: d})
}

// noMatchResponse is a findAndModify reply that matched nothing.
func noMatchResponse() bson.D {
	return mtest.CreateSuccessResponse()
}

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// sentCommand returns the next command of the given name the client sent.
func sentCommand(mt *mtest.T, name string) bson.Raw {
	mt.Helper()
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName == name {
			return evt.Command
		}
	}
	mt.Fatalf("no %s command sent", name)
	return nil
}
