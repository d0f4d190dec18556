package gitobject_test

import (
	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TreeBuilder", func() {
	var (
		db                 *gitobject.ObjectDB
		aID, bID, scriptID hash.Hash
	)

	BeforeEach(func() {
		db, _ = newTestDB()
		aID = writeBlob(db, "a\n")
		bID = writeBlob(db, "b\n")
		scriptID = writeBlob(db, "#!/bin/sh\n")
	})

	It("should build nested trees in git order", func() {
		builder := gitobject.NewTreeBuilder(db)
		Expect(builder.Add(ctx, "src/b.txt", object.ModeBlob, bID)).To(Succeed())
		Expect(builder.Add(ctx, "src/a.txt", object.ModeBlob, aID)).To(Succeed())
		Expect(builder.Add(ctx, "bin/run.sh", object.ModeExecutable, scriptID)).To(Succeed())
		Expect(builder.Add(ctx, "src.txt", object.ModeBlob, aID)).To(Succeed())

		id, err := builder.Build(ctx)
		Expect(err).NotTo(HaveOccurred())

		srcID := writeTree(db, file("a.txt", aID), file("b.txt", bID))
		binID := writeTree(db, gitobject.TreeEntry{Mode: object.ModeExecutable, Name: "run.sh", ID: scriptID})
		want := writeTree(db, dir("bin", binID), file("src.txt", aID), dir("src", srcID))
		Expect(id).To(Equal(want))

		root, err := db.ReadTree(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(gitobject.IsSorted(root.Entries())).To(BeTrue())
		names := []string{}
		for _, entry := range root.Entries() {
			names = append(names, entry.Name)
		}
		Expect(names).To(Equal([]string{"bin", "src.txt", "src"}))
	})

	It("should refuse to build an empty tree", func() {
		_, err := gitobject.NewTreeBuilder(db).Build(ctx)
		Expect(err).To(MatchError(gitobject.ErrEmptyTreeItems))
	})

	It("should replace existing files", func() {
		builder := gitobject.NewTreeBuilder(db)
		Expect(builder.Add(ctx, "file", object.ModeBlob, aID)).To(Succeed())
		Expect(builder.Add(ctx, "file", object.ModeExecutable, bID)).To(Succeed())

		id, err := builder.Build(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(writeTree(db, gitobject.TreeEntry{Mode: object.ModeExecutable, Name: "file", ID: bID})))
	})

	Context("editing an existing tree", func() {
		var (
			docsID, srcID, rootID, commitID hash.Hash
		)

		BeforeEach(func() {
			docsID = writeTree(db, file("guide.md", aID))
			srcID = writeTree(db, file("main.go", bID))
			rootID = writeTree(db, dir("docs", docsID), dir("src", srcID), file("README", aID))
			commitID = mustWrite(db, newCommit(rootID, "base\n"))
		})

		It("should rebuild the same tree when nothing changes", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, commitID)
			Expect(err).NotTo(HaveOccurred())

			id, err := builder.Build(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(rootID))
		})

		It("should keep untouched subtrees", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())
			Expect(builder.Add(ctx, "src/util.go", object.ModeBlob, scriptID)).To(Succeed())

			id, err := builder.Build(ctx)
			Expect(err).NotTo(HaveOccurred())

			docs, err := db.GetTreeByPath(ctx, id, "docs")
			Expect(err).NotTo(HaveOccurred())
			Expect(docs.ID()).To(Equal(docsID))

			src, err := db.GetTreeByPath(ctx, id, "src")
			Expect(err).NotTo(HaveOccurred())
			Expect(src.Len()).To(Equal(2))

			blob, err := db.GetBlobByPath(ctx, id, "src/util.go")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(blob.Content())).To(Equal("#!/bin/sh\n"))
		})

		It("should remove files and prune emptied directories", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())
			Expect(builder.Remove(ctx, "docs/guide.md")).To(Succeed())

			id, err := builder.Build(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(writeTree(db, dir("src", srcID), file("README", aID))))
		})

		It("should remove whole directories", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())
			Expect(builder.Remove(ctx, "src")).To(Succeed())

			id, err := builder.Build(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(writeTree(db, dir("docs", docsID), file("README", aID))))
		})

		It("should report missing paths on removal", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())

			Expect(builder.Remove(ctx, "docs/missing.md")).To(MatchError(gitobject.ErrPathNotFound))
			Expect(builder.Remove(ctx, "nowhere/file")).To(MatchError(gitobject.ErrPathNotFound))
		})

		It("should refuse to treat a file as a directory", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())

			err = builder.Add(ctx, "README/nested.txt", object.ModeBlob, aID)
			Expect(err).To(MatchError(gitobject.ErrInvalidPath))
		})

		It("should refuse to replace a directory with a file", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())

			Expect(builder.Add(ctx, "docs", object.ModeBlob, aID)).To(MatchError(gitobject.ErrInvalidPath))

			Expect(builder.Add(ctx, "src/extra.go", object.ModeBlob, aID)).To(Succeed())
			Expect(builder.Add(ctx, "src", object.ModeBlob, aID)).To(MatchError(gitobject.ErrInvalidPath))
		})

		It("should allow grafting a subtree by id", func() {
			builder, err := gitobject.LoadTreeBuilder(ctx, db, rootID)
			Expect(err).NotTo(HaveOccurred())
			Expect(builder.Add(ctx, "docs", object.ModeTree, srcID)).To(Succeed())

			id, err := builder.Build(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(writeTree(db, dir("docs", srcID), dir("src", srcID), file("README", aID))))
		})
	})

	It("should reject invalid modes and paths", func() {
		builder := gitobject.NewTreeBuilder(db)
		Expect(builder.Add(ctx, "file", object.Mode(0o100600), aID)).To(MatchError(gitobject.ErrInvalidTreeItem))
		Expect(builder.Add(ctx, "", object.ModeBlob, aID)).To(MatchError(gitobject.ErrInvalidPath))
		Expect(builder.Add(ctx, "../escape", object.ModeBlob, aID)).To(MatchError(gitobject.ErrInvalidPath))
		Expect(builder.Add(ctx, "dir/", object.ModeBlob, aID)).To(MatchError(gitobject.ErrInvalidPath))
	})

	It("should fail to load something that is not a tree", func() {
		_, err := gitobject.LoadTreeBuilder(ctx, db, aID)
		Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))
	})
})
