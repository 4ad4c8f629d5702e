package database

type migration struct {
	name  string
	stmts []string
}

// migrations mirror the subset of the planner schema the seed script touches.
// The version number is the 1-based index into this slice.
var migrations = []migration{
	{
		name: "reference tables",
		stmts: []string{
			`CREATE TABLE "Sports" (
				"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
				"Name" TEXT NOT NULL UNIQUE
			)`,

			`CREATE TABLE "ConceptCategories" (
				"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
				"Name" TEXT NOT NULL,
				"ParentId" INTEGER,
				FOREIGN KEY ("ParentId") REFERENCES "ConceptCategories"("Id")
			)`,
			`CREATE INDEX "IX_ConceptCategories_ParentId" ON "ConceptCategories"("ParentId")`,
		},
	},
	{
		name: "sport concepts",
		stmts: []string{
			`CREATE TABLE "SportConcepts" (
				"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
				"Name" TEXT NOT NULL,
				"Description" TEXT,
				"Url" TEXT,
				"ConceptCategoryId" INTEGER,
				"IsActive" BOOLEAN NOT NULL DEFAULT TRUE,
				"SportId" INTEGER,
				FOREIGN KEY ("ConceptCategoryId") REFERENCES "ConceptCategories"("Id"),
				FOREIGN KEY ("SportId") REFERENCES "Sports"("Id")
			)`,
			`CREATE INDEX "IX_SportConcepts_ConceptCategoryId" ON "SportConcepts"("ConceptCategoryId")`,
			`CREATE INDEX "IX_SportConcepts_SportId" ON "SportConcepts"("SportId")`,
		},
	},
}
