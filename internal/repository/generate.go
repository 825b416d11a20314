package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"CommunitySpaces/storage/database"
)

// ProfileQuerier 成员资料查询接口
type ProfileQuerier interface {
	// GetByHandle 根据用户名查询
	//
	// SELECT * FROM @@table WHERE handle = @handle AND deleted_at IS NULL LIMIT 1
	GetByHandle(handle string) (*gen.T, error)

	// GetByPublicID 根据 PublicID 查询（API 中的 profile id 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID AND deleted_at IS NULL LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListBySpace 查询加入某个空间的成员
	//
	// SELECT p.* FROM @@table p
	// INNER JOIN space_members sm ON sm.profile_id = p.id
	// WHERE sm.space_id = @spaceID AND p.deleted_at IS NULL
	// ORDER BY sm.joined_at DESC
	// LIMIT @limit
	ListBySpace(spaceID string, limit int) ([]*gen.T, error)
}

// ProjectQuerier 项目查询接口
type ProjectQuerier interface {
	// GetByPublicID 根据 PublicID 查询
	//
	// SELECT * FROM @@table WHERE public_id = @publicID AND deleted_at IS NULL LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListByOwner 查询成员的全部项目
	//
	// SELECT * FROM @@table
	// WHERE owner_id = @ownerID AND deleted_at IS NULL
	// ORDER BY created_at DESC
	ListByOwner(ownerID int64) ([]*gen.T, error)

	// IncrementViews 浏览数加一
	//
	// UPDATE @@table SET views = views + 1 WHERE public_id = @publicID
	IncrementViews(publicID int64) error
}

// SpaceMemberQuerier 空间成员查询接口
type SpaceMemberQuerier interface {
	// CountBySpace 统计各空间新增成员数
	//
	// SELECT space_id, COUNT(*) AS members FROM @@table GROUP BY space_id
	CountBySpace() ([]gen.M, error)
}

// Generate 生成类型安全的查询代码到 internal/repository/query。
func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	db := database.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query",
		ModelPkgPath:      "CommunitySpaces/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	models := database.Models()
	g.ApplyBasic(models...)

	g.ApplyInterface(func(ProfileQuerier) {}, models[0])
	g.ApplyInterface(func(ProjectQuerier) {}, models[1])
	g.ApplyInterface(func(SpaceMemberQuerier) {}, models[2])

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
