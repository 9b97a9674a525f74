package renderer

// litShaderSource is the WGSL source for the single lit render pipeline.
// One uniform bind group carries the frame globals; a second carries the
// per-node model matrix, bound with a dynamic offset so every draw in a
// frame shares one buffer. Shading is Lambert diffuse plus a fixed ambient
// term — normals are rotated by the model matrix, which is correct for the
// rigid and uniformly scaled node transforms animation clips produce.
const litShaderSource = `
struct Globals {
    view_proj: mat4x4<f32>,
    light_dir: vec4<f32>,
    camera_pos: vec4<f32>,
};

struct NodeUniform {
    model: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> globals: Globals;
@group(1) @binding(0) var<uniform> node: NodeUniform;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_normal: vec3<f32>,
    @location(1) world_position: vec3<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world = node.model * vec4<f32>(in.position, 1.0);
    out.clip_position = globals.view_proj * world;
    out.world_normal = (node.model * vec4<f32>(in.normal, 0.0)).xyz;
    out.world_position = world.xyz;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let base_color = vec3<f32>(0.72, 0.74, 0.78);
    let ambient = 0.25;

    let n = normalize(in.world_normal);
    let diffuse = max(dot(n, -normalize(globals.light_dir.xyz)), 0.0);

    // Subtle rim from the camera direction keeps silhouettes readable on
    // unlit faces.
    let view_dir = normalize(globals.camera_pos.xyz - in.world_position);
    let rim = pow(1.0 - max(dot(n, view_dir), 0.0), 3.0) * 0.15;

    let lit = base_color * (ambient + (1.0 - ambient) * diffuse) + vec3<f32>(rim);
    return vec4<f32>(lit, 1.0);
}
`
