package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/cppla/blogapi/models"
)

func TestBlogsAddCommentKeepsText(t *testing.T) {
	mt := newMock(t)
	mt.Run("plain text survives", func(mt *mtest.T) {
		blogs := NewBlogs(mt.DB)
		mt.AddMockResponses(updatedResponse(doc(t, models.Blog{ID: primitive.NewObjectID()})))

		text := `Tom & Jerry: 5 < 6, "great" <3`
		_, err := blogs.AddComment(context.Background(), primitive.NewObjectID().Hex(), &models.Comment{Comment: text})
		require.NoError(t, err)

		pushed := sentCommand(mt, "findAndModify").Lookup("update", "$push", "comments")
		require.Equal(t, text, pushed.Document().Lookup("comment").StringValue())
		require.False(t, pushed.Document().Lookup("_id").ObjectID().IsZero())
	})

	mt.Run("markup is dropped", func(mt *mtest.T) {
		blogs := NewBlogs(mt.DB)
		mt.AddMockResponses(updatedResponse(doc(t, models.Blog{ID: primitive.NewObjectID()})))

		_, err := blogs.ReplaceComment(context.Background(), primitive.NewObjectID().Hex(),
			&models.Comment{Comment: "<b>bold</b> & <script>alert(1)</script>fine"})
		require.NoError(t, err)

		set := sentCommand(mt, "findAndModify").Lookup("update", "$set", "comments.$")
		require.Equal(t, "bold & fine", set.Document().Lookup("comment").StringValue())
	})
}
