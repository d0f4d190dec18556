package gitobject_test

import (
	"context"
	"errors"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/log/mocks"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/grafana/gitobject/storage"
	"go.uber.org/multierr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Verify", func() {
	var (
		db    *gitobject.ObjectDB
		store *storage.InMemoryStorage
	)

	BeforeEach(func() {
		db, store = newTestDB(gitobject.WithConcurrency(3))
	})

	It("should visit every reachable object once", func() {
		blobID := writeBlob(db, "content\n")
		sharedID := writeBlob(db, "shared\n")
		nestedID := writeTree(db, file("shared.txt", sharedID))
		firstTree := writeTree(db, file("file.txt", blobID), file("shared.txt", sharedID))
		secondTree := writeTree(db, file("file.txt", blobID), dir("nested", nestedID))
		first := mustWrite(db, newCommit(firstTree, "first\n"))
		second := mustWrite(db, newCommit(secondTree, "second\n", first))
		tagID := mustWrite(db, newTag(second, object.TypeCommit, "v2"))

		count, err := db.Verify(ctx, tagID)
		Expect(err).NotTo(HaveOccurred())
		// tag, two commits, three trees, two blobs
		Expect(count).To(Equal(8))
	})

	It("should count duplicate roots once", func() {
		blobID := writeBlob(db, "x")
		count, err := db.Verify(ctx, blobID, blobID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(1))
	})

	It("should not follow gitlinks", func() {
		treeID := writeTree(db, gitobject.TreeEntry{
			Mode: object.ModeCommit,
			Name: "vendored",
			ID:   hash.Sum([]byte("commit in another repository")),
		})

		count, err := db.Verify(ctx, treeID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(1))
	})

	It("should report every problem it finds", func() {
		goodID := writeBlob(db, "good")
		missingID := hash.Sum([]byte("missing"))
		corruptID := hash.Sum([]byte("original"))
		Expect(store.Put(ctx, corruptID, []byte("blob 8\x00tampered"))).To(Succeed())
		rootID := writeTree(db,
			file("good.txt", goodID),
			file("missing.txt", missingID),
			file("corrupt.txt", corruptID),
		)

		count, err := db.Verify(ctx, rootID)
		Expect(err).To(HaveOccurred())
		Expect(count).To(Equal(4))

		failures := multierr.Errors(err)
		Expect(failures).To(HaveLen(2))
		Expect(err).To(MatchError(gitobject.ErrObjectNotFound))
		Expect(err).To(MatchError(gitobject.ErrHashMismatch))
	})

	It("should report entries that point at the wrong kind of object", func() {
		blobID := writeBlob(db, "a")
		rootID := writeTree(db, dir("not-a-dir", blobID))

		_, err := db.Verify(ctx, rootID)
		Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))

		var typeErr *gitobject.UnexpectedObjectTypeError
		Expect(errors.As(err, &typeErr)).To(BeTrue())
		Expect(typeErr.ObjectID).To(Equal(blobID))
		Expect(typeErr.ExpectedType).To(Equal(object.TypeTree))
		Expect(typeErr.ActualType).To(Equal(object.TypeBlob))
	})

	It("should accept a file entry whose bytes were first stored as a tree", func() {
		innerID := writeTree(db, file("a.txt", writeBlob(db, "a")))
		rootID := writeTree(db, file("tree-bytes", innerID))

		count, err := db.Verify(ctx, rootID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
	})

	It("should check records even when reads are not verified", func() {
		unverified, err := gitobject.NewObjectDB(store, gitobject.WithVerification(false))
		Expect(err).NotTo(HaveOccurred())

		corruptID := hash.Sum([]byte("original"))
		Expect(store.Put(ctx, corruptID, []byte("blob 8\x00tampered"))).To(Succeed())

		_, err = unverified.Verify(ctx, corruptID)
		Expect(err).To(MatchError(gitobject.ErrHashMismatch))
	})

	It("should log a warning when verification fails", func() {
		logger := &mocks.FakeLogger{}
		logged, err := gitobject.NewObjectDB(store, gitobject.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())

		_, err = logged.Verify(context.Background(), hash.Sum([]byte("missing")))
		Expect(err).To(MatchError(gitobject.ErrObjectNotFound))
		Expect(logger.WarnCallCount()).To(Equal(1))
		msg, _ := logger.WarnArgsForCall(0)
		Expect(msg).To(Equal("Verification failed"))
	})

	It("should stop when the context is cancelled", func() {
		blobID := writeBlob(db, "x")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		count, err := db.Verify(cancelled, blobID)
		Expect(err).To(MatchError(context.Canceled))
		Expect(count).To(BeZero())
	})
})
