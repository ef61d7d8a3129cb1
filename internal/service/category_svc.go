package service

import (
	"context"
	"encoding/json"
	"strings"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/pkg/logger"
	"bdshop_dev_v1_202608/pkg/utils"
)

// ==================== CategoryService ====================

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	storage      *StorageService
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository, storage *StorageService) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, storage: storage}
}

// ==================== 写操作（后台） ====================

// Create 创建分类
// 分类名称全局唯一，重名直接拒绝（不做序号消歧，slug 才做）
func (s *CategoryService) Create(ctx context.Context, req *dto.SaveCategoryRequest, photo *utils.UploadedFile) (*dto.CategoryVO, error) {
	taken, err := s.categoryRepo.NameExists(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	slug, err := s.uniqueSlug(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:          req.Name,
		Slug:          slug,
		SubCategories: ParseLabelList(req.SubCategories),
	}

	if photo != nil {
		url, key, err := s.storage.UploadStaged(ctx, photo)
		if err != nil {
			return nil, err
		}
		category.PhotoURL = url
		category.PhotoKey = key
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	vo := toCategoryVO(category)
	return &vo, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id int64, req *dto.SaveCategoryRequest, photo *utils.UploadedFile) (*dto.CategoryVO, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Name != "" && req.Name != category.Name {
		taken, err := s.categoryRepo.NameExists(ctx, req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrCategoryNameTaken
		}

		slug, err := s.uniqueSlug(ctx, req.Name, id)
		if err != nil {
			return nil, err
		}
		category.Name = req.Name
		category.Slug = slug
	}
	if req.SubCategories != "" {
		category.SubCategories = ParseLabelList(req.SubCategories)
	}

	if photo != nil {
		url, key, err := s.storage.UploadStaged(ctx, photo)
		if err != nil {
			return nil, err
		}
		// 旧图尽力回收，失败只记日志
		if category.PhotoKey != "" {
			if err := s.storage.Delete(ctx, category.PhotoKey); err != nil {
				logger.L().Warnw("回收旧分类图失败", "key", category.PhotoKey, "err", err)
			}
		}
		category.PhotoURL = url
		category.PhotoKey = key
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	vo := toCategoryVO(category)
	return &vo, nil
}

// Delete 删除分类
// 不阻止仍有商品引用的删除（与线上行为一致，悬挂引用由查询侧容忍）
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	if category.PhotoKey != "" {
		if err := s.storage.Delete(ctx, category.PhotoKey); err != nil {
			logger.L().Warnw("回收分类图失败", "key", category.PhotoKey, "err", err)
		}
	}
	return nil
}

// ==================== 读操作（公开） ====================

// List 全部分类
func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryVO, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]dto.CategoryVO, len(categories))
	for i := range categories {
		list[i] = toCategoryVO(&categories[i])
	}
	return list, nil
}

// GetBySlug 按 slug 查分类
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*dto.CategoryVO, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, ErrNotFound
	}
	vo := toCategoryVO(category)
	return &vo, nil
}

// ==================== 辅助 ====================

// uniqueSlug 由名称派生 slug，与已有冲突时追加 -2/-3 序号
func (s *CategoryService) uniqueSlug(ctx context.Context, name string, excludeID int64) (string, error) {
	return disambiguateSlug(ctx, utils.Slugify(name), excludeID, s.categoryRepo.SlugExists)
}

// ParseLabelList 解析标签列表，兼容 JSON 数组与逗号分隔两种编码
func ParseLabelList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	// 优先按 JSON 数组解
	if strings.HasPrefix(raw, "[") {
		var labels []string
		if err := json.Unmarshal([]byte(raw), &labels); err == nil {
			return trimLabels(labels)
		}
	}

	return trimLabels(strings.Split(raw, ","))
}

func trimLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toCategoryVO(c *model.Category) dto.CategoryVO {
	return dto.CategoryVO{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		PhotoURL:      c.PhotoURL,
		SubCategories: c.SubCategories,
		CreatedAt:     c.CreatedAt,
	}
}
