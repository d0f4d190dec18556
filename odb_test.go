package gitobject_test

import (
	"context"
	"errors"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/log/mocks"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/grafana/gitobject/storage"
	storagemocks "github.com/grafana/gitobject/storage/mocks"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ObjectDB", func() {
	Context("construction", func() {
		It("should reject a nil store", func() {
			_, err := gitobject.NewObjectDB(nil)
			Expect(err).To(MatchError(ContainSubstring("storage cannot be nil")))
		})

		It("should reject a nil logger", func() {
			_, err := gitobject.NewObjectDB(storage.NewInMemoryStorage(), gitobject.WithLogger(nil))
			Expect(err).To(MatchError(ContainSubstring("logger cannot be nil")))
		})

		It("should reject a concurrency below one", func() {
			_, err := gitobject.NewObjectDB(storage.NewInMemoryStorage(), gitobject.WithConcurrency(0))
			Expect(err).To(HaveOccurred())
		})

		It("should skip nil options", func() {
			db, err := gitobject.NewObjectDB(storage.NewInMemoryStorage(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Storage()).NotTo(BeNil())
		})
	})

	Context("writing and reading", func() {
		var (
			db    *gitobject.ObjectDB
			store *storage.InMemoryStorage
		)

		BeforeEach(func() {
			db, store = newTestDB()
		})

		It("should store objects under the hash of their encoding", func() {
			blob := gitobject.NewBlob([]byte("hello"))
			id := mustWrite(db, blob)
			Expect(id).To(Equal(gitobject.ComputeID(blob)))
			Expect(id).To(Equal(hash.Sum([]byte("hello"))))

			record, err := store.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(record)).To(Equal("blob 5\x00hello"))
		})

		It("should round trip every kind of object", func() {
			blobID := writeBlob(db, "package main\n")
			treeID := writeTree(db, file("main.go", blobID))
			commitID := mustWrite(db, newCommit(treeID, "Initial commit\n"))
			tagID := mustWrite(db, newTag(commitID, object.TypeCommit, "v1.0.0"))

			blob, err := db.ReadBlob(ctx, blobID)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(blob.Content())).To(Equal("package main\n"))

			tree, err := db.ReadTree(ctx, treeID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.ID()).To(Equal(treeID))
			Expect(tree.Entries()).To(Equal([]gitobject.TreeEntry{file("main.go", blobID)}))

			commit, err := db.ReadCommit(ctx, commitID)
			Expect(err).NotTo(HaveOccurred())
			Expect(commit).To(Equal(newCommit(treeID, "Initial commit\n")))

			tag, err := db.ReadTag(ctx, tagID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tag).To(Equal(newTag(commitID, object.TypeCommit, "v1.0.0")))

			obj, err := db.Read(ctx, tagID)
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.Type()).To(Equal(object.TypeTag))
		})

		It("should treat writing the same object twice as a no-op", func() {
			first := writeBlob(db, "same")
			second := writeBlob(db, "same")
			Expect(second).To(Equal(first))
			Expect(store.Len()).To(Equal(1))
		})

		It("should refuse to write an invalid object", func() {
			commit := newCommit(hash.Sum([]byte("tree")), "bad roles\n")
			commit.Author.Role = object.RoleCommitter

			_, err := db.Write(ctx, commit)
			Expect(err).To(MatchError(gitobject.ErrInvalidSignatureType))
			Expect(store.Len()).To(BeZero())
		})

		It("should report the kind and size without decoding", func() {
			id := writeBlob(db, "twelve bytes")
			kind, size, err := db.ReadHeader(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(kind).To(Equal(object.TypeBlob))
			Expect(size).To(Equal(12))

			kind, raw, err := db.ReadRaw(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(kind).To(Equal(object.TypeBlob))
			Expect(string(raw)).To(Equal("twelve bytes"))
		})

		It("should report missing objects", func() {
			missing := hash.Sum([]byte("missing"))
			_, err := db.Read(ctx, missing)
			Expect(err).To(MatchError(gitobject.ErrObjectNotFound))

			var notFound *storage.ObjectNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.ObjectID).To(Equal(missing))

			ok, err := db.Has(ctx, missing)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should refuse a record that does not decode as the requested kind", func() {
			blobID := writeBlob(db, "a")

			_, err := db.ReadTree(ctx, blobID)
			Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))

			var typeErr *gitobject.UnexpectedObjectTypeError
			Expect(errors.As(err, &typeErr)).To(BeTrue())
			Expect(typeErr.ObjectID).To(Equal(blobID))
			Expect(typeErr.ExpectedType).To(Equal(object.TypeTree))
			Expect(typeErr.ActualType).To(Equal(object.TypeBlob))

			_, err = db.ReadCommit(ctx, blobID)
			Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))
		})

		Context("when a blob and a tree share an encoding", func() {
			var tree *gitobject.Tree

			BeforeEach(func() {
				var err error
				tree, err = gitobject.NewTree([]gitobject.TreeEntry{file("a", writeBlob(db, "x"))})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should accept the blob after the tree", func() {
				treeID := mustWrite(db, tree)

				blobID, err := db.Write(ctx, gitobject.NewBlob(tree.Bytes()))
				Expect(err).NotTo(HaveOccurred())
				Expect(blobID).To(Equal(treeID))
				Expect(store.Len()).To(Equal(2))

				blob, err := db.ReadBlob(ctx, blobID)
				Expect(err).NotTo(HaveOccurred())
				Expect(blob.Content()).To(Equal(tree.Bytes()))

				obj, err := db.Read(ctx, treeID)
				Expect(err).NotTo(HaveOccurred())
				Expect(obj.Type()).To(Equal(object.TypeTree))
			})

			It("should accept the tree after the blob", func() {
				blobID := writeBlob(db, string(tree.Bytes()))
				treeID := mustWrite(db, tree)
				Expect(treeID).To(Equal(blobID))

				read, err := db.ReadTree(ctx, treeID)
				Expect(err).NotTo(HaveOccurred())
				Expect(read.Entries()).To(Equal(tree.Entries()))

				commitID := mustWrite(db, newCommit(treeID, "tree stored as a blob\n"))
				peeled, err := db.PeelToTree(ctx, commitID)
				Expect(err).NotTo(HaveOccurred())
				Expect(peeled).To(Equal(treeID))

				_, err = db.Verify(ctx, commitID)
				Expect(err).NotTo(HaveOccurred())
			})
		})

		It("should still refuse different content under a taken id", func() {
			id := hash.Sum([]byte("x"))
			Expect(store.Put(ctx, id, []byte("blob 1\x00y"))).To(Succeed())

			_, err := db.Write(ctx, gitobject.NewBlob([]byte("x")))
			Expect(err).To(MatchError(gitobject.ErrObjectAlreadyExists))
		})

		It("should reject malformed records", func() {
			id := hash.Sum([]byte("x"))
			Expect(store.Put(ctx, id, []byte("blob 2\x00x"))).To(Succeed())

			_, err := db.Read(ctx, id)
			Expect(err).To(MatchError(gitobject.ErrMalformedEncoding))
		})
	})

	Context("hash verification", func() {
		var (
			store *storage.InMemoryStorage
			id    hash.Hash
		)

		BeforeEach(func() {
			store = storage.NewInMemoryStorage()
			id = hash.Sum([]byte("hello"))
			Expect(store.Put(ctx, id, []byte("blob 5\x00HELLO"))).To(Succeed())
		})

		It("should reject a record that does not hash to its key", func() {
			db, err := gitobject.NewObjectDB(store)
			Expect(err).NotTo(HaveOccurred())

			_, err = db.ReadBlob(ctx, id)
			Expect(err).To(MatchError(gitobject.ErrHashMismatch))

			var mismatch *gitobject.HashMismatchError
			Expect(errors.As(err, &mismatch)).To(BeTrue())
			Expect(mismatch.Expected).To(Equal(id))
			Expect(mismatch.Actual).To(Equal(hash.Sum([]byte("HELLO"))))

			_, _, err = db.ReadRaw(ctx, id)
			Expect(err).To(MatchError(gitobject.ErrHashMismatch))
		})

		It("should return the record as stored when verification is off", func() {
			db, err := gitobject.NewObjectDB(store, gitobject.WithVerification(false))
			Expect(err).NotTo(HaveOccurred())

			blob, err := db.ReadBlob(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(blob.Content())).To(Equal("HELLO"))
		})
	})

	Context("WriteAll", func() {
		It("should return ids in input order", func() {
			db, store := newTestDB(gitobject.WithConcurrency(2))

			objs := []gitobject.Object{
				gitobject.NewBlob([]byte("one")),
				gitobject.NewBlob([]byte("two")),
				gitobject.NewBlob([]byte("three")),
				gitobject.NewBlob([]byte("four")),
			}
			ids, err := db.WriteAll(ctx, objs...)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(HaveLen(len(objs)))
			for i, obj := range objs {
				Expect(ids[i]).To(Equal(gitobject.ComputeID(obj)))
			}
			Expect(store.Len()).To(Equal(4))
		})

		It("should fail when the store rejects a write", func() {
			fake := &storagemocks.FakeObjectStorage{}
			fake.PutReturns(errors.New("disk full"))

			db, err := gitobject.NewObjectDB(fake)
			Expect(err).NotTo(HaveOccurred())

			_, err = db.WriteAll(ctx, gitobject.NewBlob([]byte("x")))
			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(fake.PutCallCount()).To(Equal(1))
		})
	})

	Context("logging", func() {
		It("should use the configured logger when the context has none", func() {
			logger := &mocks.FakeLogger{}
			db, err := gitobject.NewObjectDB(storage.NewInMemoryStorage(), gitobject.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			_, err = db.Write(context.Background(), gitobject.NewBlob([]byte("logged")))
			Expect(err).NotTo(HaveOccurred())

			Expect(logger.DebugCallCount()).To(Equal(1))
			msg, args := logger.DebugArgsForCall(0)
			Expect(msg).To(Equal("Object written"))
			Expect(args).To(ContainElement("OBJ_BLOB"))
		})
	})

	Context("PeelToTree", func() {
		It("should follow tags and commits down to a tree", func() {
			db, _ := newTestDB()
			blobID := writeBlob(db, "content")
			treeID := writeTree(db, file("file.txt", blobID))
			commitID := mustWrite(db, newCommit(treeID, "commit\n"))
			tagID := mustWrite(db, newTag(commitID, object.TypeCommit, "v1"))
			outerTagID := mustWrite(db, newTag(tagID, object.TypeTag, "v1-signed"))

			for _, start := range []hash.Hash{treeID, commitID, tagID, outerTagID} {
				peeled, err := db.PeelToTree(ctx, start)
				Expect(err).NotTo(HaveOccurred())
				Expect(peeled).To(Equal(treeID))
			}

			_, err := db.PeelToTree(ctx, blobID)
			Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))
		})
	})
})
