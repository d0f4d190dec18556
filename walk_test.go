package gitobject_test

import (
	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tree walking", func() {
	var (
		db *gitobject.ObjectDB

		readmeID, guideID, mainID, utilID hash.Hash
		libID, srcID, docsID, rootID      hash.Hash
		submoduleID, commitID             hash.Hash
	)

	BeforeEach(func() {
		db, _ = newTestDB()

		readmeID = writeBlob(db, "# project\n")
		guideID = writeBlob(db, "guide\n")
		mainID = writeBlob(db, "package main\n")
		utilID = writeBlob(db, "package lib\n")
		submoduleID = hash.MustFromHex("0123456789abcdef0123456789abcdef01234567")

		libID = writeTree(db, file("util.go", utilID))
		srcID = writeTree(db, file("main.go", mainID), dir("lib", libID))
		docsID = writeTree(db, file("guide.md", guideID))
		rootID = writeTree(db,
			file("README.md", readmeID),
			dir("docs", docsID),
			dir("src", srcID),
			gitobject.TreeEntry{Mode: object.ModeCommit, Name: "sub", ID: submoduleID},
		)
		commitID = mustWrite(db, newCommit(rootID, "Initial commit\n"))
	})

	Describe("GetFlatTree", func() {
		It("should list every entry breadth first with full paths", func() {
			flat, err := db.GetFlatTree(ctx, rootID)
			Expect(err).NotTo(HaveOccurred())
			Expect(flat.ID).To(Equal(rootID))

			paths := make([]string, 0, len(flat.Entries))
			for _, entry := range flat.Entries {
				paths = append(paths, entry.Path)
			}
			Expect(paths).To(Equal([]string{
				"README.md",
				"docs",
				"src",
				"sub",
				"docs/guide.md",
				"src/lib",
				"src/main.go",
				"src/lib/util.go",
			}))

			last := flat.Entries[len(flat.Entries)-1]
			Expect(last.Name).To(Equal("util.go"))
			Expect(last.ID).To(Equal(utilID))
			Expect(last.Type).To(Equal(object.TypeBlob))
		})

		It("should list gitlinks without descending into them", func() {
			flat, err := db.GetFlatTree(ctx, rootID)
			Expect(err).NotTo(HaveOccurred())

			var gitlink *gitobject.FlatTreeEntry
			for i := range flat.Entries {
				if flat.Entries[i].Path == "sub" {
					gitlink = &flat.Entries[i]
				}
			}
			Expect(gitlink).NotTo(BeNil())
			Expect(gitlink.Type).To(Equal(object.TypeCommit))
			Expect(gitlink.ID).To(Equal(submoduleID))
		})

		It("should start from a commit", func() {
			flat, err := db.GetFlatTree(ctx, commitID)
			Expect(err).NotTo(HaveOccurred())
			Expect(flat.ID).To(Equal(rootID))
			Expect(flat.Entries).To(HaveLen(8))
		})

		It("should fail when a subtree is missing", func() {
			missing := hash.Sum([]byte("not stored"))
			brokenID := writeTree(db, dir("gone", missing))

			_, err := db.GetFlatTree(ctx, brokenID)
			Expect(err).To(MatchError(gitobject.ErrObjectNotFound))
			Expect(err).To(MatchError(ContainSubstring(`tree at "gone"`)))
		})
	})

	Describe("GetBlobByPath", func() {
		It("should return nested files", func() {
			blob, err := db.GetBlobByPath(ctx, rootID, "src/lib/util.go")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(blob.Content())).To(Equal("package lib\n"))
		})

		It("should clean the path first", func() {
			blob, err := db.GetBlobByPath(ctx, commitID, "//src/./main.go")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(blob.Content())).To(Equal("package main\n"))
		})

		It("should report missing paths", func() {
			_, err := db.GetBlobByPath(ctx, rootID, "src/missing.go")
			Expect(err).To(MatchError(gitobject.ErrPathNotFound))
		})

		It("should refuse directories", func() {
			_, err := db.GetBlobByPath(ctx, rootID, "src/lib")
			Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))
		})

		It("should refuse to pass through a file", func() {
			_, err := db.GetBlobByPath(ctx, rootID, "README.md/inner")
			Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))
		})

		It("should reject invalid paths", func() {
			_, err := db.GetBlobByPath(ctx, rootID, "../etc/passwd")
			Expect(err).To(MatchError(gitobject.ErrInvalidPath))

			_, err = db.GetBlobByPath(ctx, rootID, "")
			Expect(err).To(MatchError(gitobject.ErrInvalidPath))
		})
	})

	Describe("GetTreeByPath", func() {
		It("should return the root for an empty path", func() {
			tree, err := db.GetTreeByPath(ctx, commitID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.ID()).To(Equal(rootID))
		})

		It("should return nested trees", func() {
			tree, err := db.GetTreeByPath(ctx, rootID, "src/lib/")
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.ID()).To(Equal(libID))
			Expect(tree.Len()).To(Equal(1))
		})

		It("should refuse files", func() {
			_, err := db.GetTreeByPath(ctx, rootID, "docs/guide.md")
			Expect(err).To(MatchError(gitobject.ErrUnexpectedObjectType))
		})

		It("should report missing directories", func() {
			_, err := db.GetTreeByPath(ctx, rootID, "docs/api")
			Expect(err).To(MatchError(gitobject.ErrPathNotFound))
		})
	})

	Describe("CompareTrees", func() {
		It("should report no changes for the same tree", func() {
			changes, err := db.CompareTrees(ctx, rootID, commitID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changes).To(BeEmpty())
		})

		It("should report added, modified and deleted paths in path order", func() {
			newMainID := writeBlob(db, "package main\n\nfunc main() {}\n")
			changelogID := writeBlob(db, "v1\n")
			newSrcID := writeTree(db, file("main.go", newMainID), dir("lib", libID))
			headID := writeTree(db,
				file("CHANGELOG.md", changelogID),
				file("README.md", readmeID),
				dir("src", newSrcID),
				gitobject.TreeEntry{Mode: object.ModeCommit, Name: "sub", ID: submoduleID},
			)

			changes, err := db.CompareTrees(ctx, rootID, headID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changes).To(Equal([]gitobject.TreeChange{
				{Path: "CHANGELOG.md", Status: gitobject.FileStatusAdded, Mode: object.ModeBlob, ID: changelogID},
				{Path: "docs", Status: gitobject.FileStatusDeleted, Mode: object.ModeTree, ID: docsID},
				{Path: "docs/guide.md", Status: gitobject.FileStatusDeleted, Mode: object.ModeBlob, ID: guideID},
				{
					Path:    "src/main.go",
					Status:  gitobject.FileStatusModified,
					Mode:    object.ModeBlob,
					ID:      newMainID,
					OldMode: object.ModeBlob,
					OldID:   mainID,
				},
			}))
		})

		It("should report mode changes", func() {
			headID := writeTree(db,
				gitobject.TreeEntry{Mode: object.ModeExecutable, Name: "README.md", ID: readmeID},
				dir("docs", docsID),
				dir("src", srcID),
				gitobject.TreeEntry{Mode: object.ModeCommit, Name: "sub", ID: submoduleID},
			)

			changes, err := db.CompareTrees(ctx, rootID, headID)
			Expect(err).NotTo(HaveOccurred())
			Expect(changes).To(HaveLen(1))
			Expect(changes[0].Status).To(Equal(gitobject.FileStatusModified))
			Expect(changes[0].OldMode).To(Equal(object.ModeBlob))
			Expect(changes[0].Mode).To(Equal(object.ModeExecutable))
		})
	})
})
